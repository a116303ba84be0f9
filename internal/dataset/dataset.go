// Package dataset holds the flat student/course/enrollment record set the graph
// is built from, and loads it from JSON.
package dataset

import (
	"fmt"

	"coursekg/kgraph/internal/errs"
)

// Enrollment types
const (
	TypeLiked      = "liked"
	TypeDisliked   = "disliked"
	TypeWillEnroll = "will_enroll"
)

// DefaultWeight is used when an enrollment record carries no weight.
const DefaultWeight = 0.0

// Student is one row of the students collection
type Student struct {
	StudentID   int      `json:"student_id"`
	StudentCode *string  `json:"student_code"`
	Semester    *int     `json:"semester"`
	GPA         *float64 `json:"gpa"`
	MajorCode   *string  `json:"student_major_code"`
}

// Course is one row of the courses collection
type Course struct {
	CourseID   int     `json:"course_id"`
	CourseCode *string `json:"course_code"`
	Semester   *int    `json:"semester"`
	Credit     *int    `json:"credit"`
	MajorCode  *string `json:"course_major_code"`
}

// Enrollment is one observed interaction between a student and a course
type Enrollment struct {
	StudentID int      `json:"student_id"`
	CourseID  int      `json:"course_id"`
	Type      string   `json:"type"`
	Weight    *float64 `json:"weight"`
}

// WeightOrDefault returns the record weight, or DefaultWeight when absent.
func (e Enrollment) WeightOrDefault() float64 {
	if e.Weight == nil {
		return DefaultWeight
	}
	return *e.Weight
}

// Dataset is the full record set, in source order.
type Dataset struct {
	Students    []Student    `json:"students"`
	Courses     []Course     `json:"courses"`
	Enrollments []Enrollment `json:"enrollments"`
}

// IsKnownType reports whether t is one of the enrollment types.
func IsKnownType(t string) bool {
	switch t {
	case TypeLiked, TypeDisliked, TypeWillEnroll:
		return true
	}
	return false
}

// Validate checks identity uniqueness, enrollment types and that every
// enrollment references a known student and course.
func (d *Dataset) Validate() error {
	const op = "validate dataset"
	if d == nil {
		return errs.E(errs.MissingInput, op, "no dataset")
	}

	students := make(map[int]bool, len(d.Students))
	for i, s := range d.Students {
		if students[s.StudentID] {
			return errs.E(errs.MalformedDataset, op, "students[%d]: duplicate student_id %d", i, s.StudentID)
		}
		students[s.StudentID] = true
	}
	courses := make(map[int]bool, len(d.Courses))
	for i, c := range d.Courses {
		if courses[c.CourseID] {
			return errs.E(errs.MalformedDataset, op, "courses[%d]: duplicate course_id %d", i, c.CourseID)
		}
		courses[c.CourseID] = true
	}

	for i, e := range d.Enrollments {
		if !IsKnownType(e.Type) {
			return errs.E(errs.MalformedDataset, op, "enrollments[%d]: unknown type %q", i, e.Type)
		}
		if !students[e.StudentID] {
			return errs.E(errs.MalformedDataset, op, "enrollments[%d]: unknown student_id %d", i, e.StudentID)
		}
		if !courses[e.CourseID] {
			return errs.E(errs.MalformedDataset, op, "enrollments[%d]: unknown course_id %d", i, e.CourseID)
		}
	}
	return nil
}

// Summary is a one-line description used in logs and CLI output.
func (d *Dataset) Summary() string {
	return fmt.Sprintf("students=%d courses=%d enrollments=%d", len(d.Students), len(d.Courses), len(d.Enrollments))
}
