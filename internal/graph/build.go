package graph

import (
	"coursekg/kgraph/internal/dataset"
	"coursekg/kgraph/internal/errs"
)

// BuildOptions controls graph construction
type BuildOptions struct {
	// IncludeWillEnroll keeps will_enroll interactions as edges
	IncludeWillEnroll bool
}

// Build constructs the bipartite graph for ds. Students are added first, then
// courses, then enrollments, all in dataset order; that order decides which
// interaction is canonical when a pair repeats. Every enrollment, skipped or
// not, must reference a known student and course.
func Build(ds *dataset.Dataset, opts BuildOptions) (*Graph, error) {
	const op = "build graph"
	if ds == nil {
		return nil, errs.E(errs.MissingInput, op, "no dataset available to build from")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, s := range ds.Students {
		n := &StudentNode{
			ID:        s.StudentID,
			Code:      clonePtr(s.StudentCode),
			Semester:  clonePtr(s.Semester),
			GPA:       clonePtr(s.GPA),
			MajorCode: clonePtr(s.MajorCode),
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, c := range ds.Courses {
		n := &CourseNode{
			ID:        c.CourseID,
			Code:      clonePtr(c.CourseCode),
			Semester:  clonePtr(c.Semester),
			Credit:    clonePtr(c.Credit),
			MajorCode: clonePtr(c.MajorCode),
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	for _, e := range ds.Enrollments {
		if e.Type == dataset.TypeWillEnroll && !opts.IncludeWillEnroll {
			continue
		}
		in := Interaction{
			Type:       InteractionType(e.Type),
			Weight:     e.WeightOrDefault(),
			IsEnrolled: e.Type != dataset.TypeWillEnroll,
		}
		if err := g.Merge(StudentKey(e.StudentID), CourseKey(e.CourseID), in); err != nil {
			return nil, err
		}
	}
	return g, nil
}
