package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursekg/kgraph/internal/errs"
)

const sampleJSON = `{
  "students": [
    {"student_id": 0, "student_code": "22IT001", "semester": 4, "gpa": 7.5, "student_major_code": "IT", "image_url": "x"},
    {"student_id": 1, "student_code": "22CS002", "semester": 1, "gpa": null}
  ],
  "courses": [
    {"course_id": 0, "course_code": "IT1010", "semester": 1, "credit": 4, "course_major_code": "IT"}
  ],
  "enrollments": [
    {"student_id": 0, "course_id": 0, "type": "liked", "weight": 1.0},
    {"student_id": 1, "course_id": 0, "type": "will_enroll"}
  ]
}`

func TestParse_Valid(t *testing.T) {
	ds, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	require.Len(t, ds.Students, 2)
	require.Len(t, ds.Courses, 1)
	require.Len(t, ds.Enrollments, 2)

	assert.Equal(t, "22IT001", *ds.Students[0].StudentCode)
	assert.Nil(t, ds.Students[1].GPA)
	assert.Nil(t, ds.Students[1].MajorCode)
	assert.Equal(t, 4, *ds.Courses[0].Credit)
	assert.Equal(t, 1.0, ds.Enrollments[0].WeightOrDefault())
	assert.Equal(t, DefaultWeight, ds.Enrollments[1].WeightOrDefault())
	assert.Equal(t, "students=2 courses=1 enrollments=2", ds.Summary())
}

func TestParse_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, sampleJSON...)
	_, err := Parse(data)
	require.NoError(t, err)
}

func TestParse_Windows1252(t *testing.T) {
	// 0xE9 is é in Windows-1252 and an invalid byte on its own in UTF-8
	data := []byte("{\"students\": [], \"courses\": [{\"course_id\": 0, \"course_code\": \"Caf\xe9\"}], \"enrollments\": []}")
	ds, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, ds.Courses, 1)
	assert.Equal(t, "Café", *ds.Courses[0].CourseCode)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `students`},
		{"missing collection", `{"students": [], "courses": []}`},
		{"null collection", `{"students": [], "courses": null, "enrollments": []}`},
		{"missing student id", `{"students": [{"semester": 1}], "courses": [], "enrollments": []}`},
		{"missing enrollment type", `{"students": [{"student_id": 0}], "courses": [{"course_id": 0}],
			"enrollments": [{"student_id": 0, "course_id": 0}]}`},
		{"unknown type", `{"students": [{"student_id": 0}], "courses": [{"course_id": 0}],
			"enrollments": [{"student_id": 0, "course_id": 0, "type": "rated"}]}`},
		{"dangling student", `{"students": [{"student_id": 0}], "courses": [{"course_id": 0}],
			"enrollments": [{"student_id": 5, "course_id": 0, "type": "liked"}]}`},
		{"dangling course", `{"students": [{"student_id": 0}], "courses": [{"course_id": 0}],
			"enrollments": [{"student_id": 0, "course_id": 9, "type": "will_enroll"}]}`},
		{"duplicate student", `{"students": [{"student_id": 0}, {"student_id": 0}], "courses": [], "enrollments": []}`},
		{"wrong field type", `{"students": [{"student_id": "zero"}], "courses": [], "enrollments": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrMalformedDataset), "got %v", err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, ds.Students, 2)

	_, err = Load(filepath.Join(dir, "absent.json"))
	assert.True(t, errors.Is(err, errs.ErrIOFailure))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate_Nil(t *testing.T) {
	var ds *Dataset
	assert.True(t, errors.Is(ds.Validate(), errs.ErrMissingInput))
}
