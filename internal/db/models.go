package db

// Rows keep their implicit rowid, so reading ORDER BY rowid returns them in
// the order they were ingested. That order decides canonical edge fields.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	student_id         INTEGER NOT NULL UNIQUE,
	student_code       TEXT,
	semester           INTEGER,
	gpa                REAL,
	student_major_code TEXT
);
CREATE TABLE IF NOT EXISTS courses (
	course_id         INTEGER NOT NULL UNIQUE,
	course_code       TEXT,
	semester          INTEGER,
	credit            INTEGER,
	course_major_code TEXT
);
CREATE TABLE IF NOT EXISTS enrollments (
	student_id INTEGER NOT NULL REFERENCES students(student_id),
	course_id  INTEGER NOT NULL REFERENCES courses(course_id),
	type       TEXT NOT NULL CHECK (type IN ('liked', 'disliked', 'will_enroll')),
	weight     REAL
);
CREATE INDEX IF NOT EXISTS idx_enrollments_student ON enrollments(student_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments(course_id);
`

const (
	studentColumns    = "student_id, student_code, semester, gpa, student_major_code"
	courseColumns     = "course_id, course_code, semester, credit, course_major_code"
	enrollmentColumns = "student_id, course_id, type, weight"
)

type scanner interface{ Scan(dest ...any) error }
