package graph

// UnionFind implements union-find over node keys with path compression and union by rank
type UnionFind struct {
	parent map[NodeKey]NodeKey
	rank   map[NodeKey]int
	size   map[NodeKey]int
}

// NewUnionFind creates a new UnionFind where each key is its own component
func NewUnionFind(keys []NodeKey) *UnionFind {
	uf := &UnionFind{
		parent: make(map[NodeKey]NodeKey, len(keys)),
		rank:   make(map[NodeKey]int, len(keys)),
		size:   make(map[NodeKey]int, len(keys)),
	}
	for _, k := range keys {
		uf.parent[k] = k
		uf.size[k] = 1
	}
	return uf
}

// Find returns the root of the component containing k
func (uf *UnionFind) Find(k NodeKey) NodeKey {
	parent, ok := uf.parent[k]
	if !ok || parent == k {
		return k
	}
	root := uf.Find(parent)
	uf.parent[k] = root
	return root
}

// Union merges the components containing a and b. Returns true if they were separate.
func (uf *UnionFind) Union(a, b NodeKey) bool {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return false
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	return true
}

// Size returns the number of keys in k's component
func (uf *UnionFind) Size(k NodeKey) int {
	return uf.size[uf.Find(k)]
}

// Components returns all connected components
func (uf *UnionFind) Components() [][]NodeKey {
	groups := make(map[NodeKey][]NodeKey)
	for k := range uf.parent {
		root := uf.Find(k)
		groups[root] = append(groups[root], k)
	}
	result := make([][]NodeKey, 0, len(groups))
	for _, members := range groups {
		result = append(result, members)
	}
	return result
}
