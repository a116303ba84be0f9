package db

import (
	"database/sql"
	"errors"

	"coursekg/kgraph/internal/dataset"
	"coursekg/kgraph/internal/errs"
)

// scanStudent scans a row into a Student. The row must have studentColumns in order.
func scanStudent(row scanner) (dataset.Student, error) {
	var s dataset.Student
	err := row.Scan(&s.StudentID, &s.StudentCode, &s.Semester, &s.GPA, &s.MajorCode)
	return s, err
}

// scanCourse scans a row into a Course. The row must have courseColumns in order.
func scanCourse(row scanner) (dataset.Course, error) {
	var c dataset.Course
	err := row.Scan(&c.CourseID, &c.CourseCode, &c.Semester, &c.Credit, &c.MajorCode)
	return c, err
}

// AllStudents returns every student in ingestion order
func (d *DB) AllStudents() ([]dataset.Student, error) {
	rows, err := d.conn.Query(`SELECT ` + studentColumns + ` FROM students ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []dataset.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// AllCourses returns every course in ingestion order
func (d *DB) AllCourses() ([]dataset.Course, error) {
	rows, err := d.conn.Query(`SELECT ` + courseColumns + ` FROM courses ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []dataset.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetStudent returns a single student by id. An unknown id is MissingInput.
func (d *DB) GetStudent(id int) (*dataset.Student, error) {
	row := d.conn.QueryRow(`SELECT `+studentColumns+` FROM students WHERE student_id = ?`, id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(errs.MissingInput, "get student", "student %d not stored", id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
