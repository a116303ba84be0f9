package db

import (
	"coursekg/kgraph/internal/dataset"
)

func scanEnrollment(row scanner) (dataset.Enrollment, error) {
	var e dataset.Enrollment
	err := row.Scan(&e.StudentID, &e.CourseID, &e.Type, &e.Weight)
	return e, err
}

// AllEnrollments returns every enrollment in ingestion order
func (d *DB) AllEnrollments() ([]dataset.Enrollment, error) {
	rows, err := d.conn.Query(`SELECT ` + enrollmentColumns + ` FROM enrollments ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []dataset.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// EnrollmentsForStudent returns the enrollments of one student in ingestion order
func (d *DB) EnrollmentsForStudent(studentID int) ([]dataset.Enrollment, error) {
	rows, err := d.conn.Query(`
		SELECT `+enrollmentColumns+`
		FROM enrollments WHERE student_id = ? ORDER BY rowid
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []dataset.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// CountByType returns how many enrollments carry each type
func (d *DB) CountByType() (map[string]int, error) {
	rows, err := d.conn.Query(`SELECT type, COUNT(*) FROM enrollments GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}
