package graph

import (
	"fmt"
	"strconv"
	"strings"

	"coursekg/kgraph/internal/errs"
)

// NodeKind tags a node as a student or a course
type NodeKind string

const (
	KindStudent NodeKind = "student"
	KindCourse  NodeKind = "course"
)

func (k NodeKind) prefix() string {
	if k == KindCourse {
		return "c_"
	}
	return "s_"
}

// NodeKey identifies a node by kind and original dataset id. Student and
// course ids come from independent ranges, so the kind is part of the identity.
type NodeKey struct {
	Kind NodeKind
	ID   int
}

// StudentKey returns the key of student id
func StudentKey(id int) NodeKey { return NodeKey{Kind: KindStudent, ID: id} }

// CourseKey returns the key of course id
func CourseKey(id int) NodeKey { return NodeKey{Kind: KindCourse, ID: id} }

// String renders the key as s_<id> or c_<id>
func (k NodeKey) String() string {
	return k.Kind.prefix() + strconv.Itoa(k.ID)
}

// Label is the short display form: S<id> or C<id>
func (k NodeKey) Label() string {
	if k.Kind == KindCourse {
		return "C" + strconv.Itoa(k.ID)
	}
	return "S" + strconv.Itoa(k.ID)
}

func (k NodeKey) less(o NodeKey) bool {
	if k.Kind != o.Kind {
		return k.Kind == KindStudent
	}
	return k.ID < o.ID
}

// ParseNodeKey parses the s_<id> / c_<id> form.
func ParseNodeKey(s string) (NodeKey, error) {
	var kind NodeKind
	switch {
	case strings.HasPrefix(s, "s_"):
		kind = KindStudent
	case strings.HasPrefix(s, "c_"):
		kind = KindCourse
	default:
		return NodeKey{}, errs.E(errs.InvalidArgument, "parse node key", "%q has no s_ or c_ prefix", s)
	}
	id, err := strconv.Atoi(s[2:])
	if err != nil {
		return NodeKey{}, errs.Wrap(errs.InvalidArgument, "parse node key", fmt.Errorf("%q: %w", s, err))
	}
	return NodeKey{Kind: kind, ID: id}, nil
}

// ParseSeed normalizes a seed reference. A bare integer is a student id;
// prefixed forms are parsed as node keys.
func ParseSeed(ref string) (NodeKey, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return StudentKey(id), nil
	}
	return ParseNodeKey(ref)
}
