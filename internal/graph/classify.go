package graph

// Classify returns one representative interaction type for e: the canonical
// type when set, otherwise the most frequent type among its interactions.
// Ties go to the type encountered first in record order. Unknown when the
// edge carries no type information.
func Classify(e Edge) InteractionType {
	if e.Type != "" {
		return e.Type
	}

	counts := make(map[InteractionType]int)
	var order []InteractionType
	for _, in := range e.Interactions {
		if in.Type == "" {
			continue
		}
		if counts[in.Type] == 0 {
			order = append(order, in.Type)
		}
		counts[in.Type]++
	}

	best := Unknown
	bestCount := 0
	for _, t := range order {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}
