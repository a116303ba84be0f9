package db

import (
	"database/sql"
	"fmt"

	"coursekg/kgraph/internal/dataset"
	"coursekg/kgraph/internal/errs"
)

// SaveDataset validates ds and replaces the stored dataset with it in one
// transaction. On any failure the previous contents are kept.
func (d *DB) SaveDataset(ds *dataset.Dataset) error {
	const op = "save dataset"
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"enrollments", "students", "courses"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return errs.Wrap(errs.IOFailure, op, fmt.Errorf("clearing %s: %w", table, err))
		}
	}

	if err := insertAll(tx, "students", studentColumns, len(ds.Students), func(i int) []any {
		s := ds.Students[i]
		return []any{s.StudentID, s.StudentCode, s.Semester, s.GPA, s.MajorCode}
	}); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	if err := insertAll(tx, "courses", courseColumns, len(ds.Courses), func(i int) []any {
		c := ds.Courses[i]
		return []any{c.CourseID, c.CourseCode, c.Semester, c.Credit, c.MajorCode}
	}); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	if err := insertAll(tx, "enrollments", enrollmentColumns, len(ds.Enrollments), func(i int) []any {
		e := ds.Enrollments[i]
		return []any{e.StudentID, e.CourseID, e.Type, e.Weight}
	}); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	return nil
}

func insertAll(tx *sql.Tx, table, columns string, n int, row func(int) []any) error {
	placeholders := "?"
	for i := 1; i < countColumns(columns); i++ {
		placeholders += ", ?"
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, columns, placeholders))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("%s[%d]: %w", table, i, err)
		}
	}
	return nil
}

func countColumns(columns string) int {
	n := 1
	for _, c := range columns {
		if c == ',' {
			n++
		}
	}
	return n
}

// LoadDataset reads the stored dataset back in ingestion order and validates it
func (d *DB) LoadDataset() (*dataset.Dataset, error) {
	const op = "load dataset"
	students, err := d.AllStudents()
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, op, fmt.Errorf("reading students: %w", err))
	}
	courses, err := d.AllCourses()
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, op, fmt.Errorf("reading courses: %w", err))
	}
	enrollments, err := d.AllEnrollments()
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, op, fmt.Errorf("reading enrollments: %w", err))
	}

	ds := &dataset.Dataset{Students: students, Courses: courses, Enrollments: enrollments}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
