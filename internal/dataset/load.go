package dataset

import (
	"bytes"
	"encoding/json"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"coursekg/kgraph/internal/errs"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// required fields per collection; other fields are optional
var requiredFields = map[string][]string{
	"students":    {"student_id"},
	"courses":     {"course_id"},
	"enrollments": {"student_id", "course_id", "type"},
}

// Load reads and validates a dataset JSON file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "load dataset", err)
	}
	return Parse(data)
}

// Parse decodes and validates a dataset document. Each of the three
// collections must be present; an absent or null collection is an error,
// not an empty default. Input that is not valid UTF-8 is read as Windows-1252.
func Parse(data []byte) (*Dataset, error) {
	const op = "parse dataset"
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, errs.Wrap(errs.MalformedDataset, op, err)
		}
		data = decoded
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errs.Wrap(errs.MalformedDataset, op, err)
	}

	for _, name := range []string{"students", "courses", "enrollments"} {
		raw, ok := top[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, errs.E(errs.MalformedDataset, op, "missing collection %q", name)
		}
		if err := checkRequired(name, raw); err != nil {
			return nil, err
		}
	}

	ds := &Dataset{}
	if err := json.Unmarshal(top["students"], &ds.Students); err != nil {
		return nil, errs.Wrap(errs.MalformedDataset, op+": students", err)
	}
	if err := json.Unmarshal(top["courses"], &ds.Courses); err != nil {
		return nil, errs.Wrap(errs.MalformedDataset, op+": courses", err)
	}
	if err := json.Unmarshal(top["enrollments"], &ds.Enrollments); err != nil {
		return nil, errs.Wrap(errs.MalformedDataset, op+": enrollments", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func checkRequired(collection string, raw json.RawMessage) error {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return errs.Wrap(errs.MalformedDataset, "parse dataset: "+collection, err)
	}
	for i, rec := range records {
		for _, field := range requiredFields[collection] {
			v, ok := rec[field]
			if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				return errs.E(errs.MalformedDataset, "parse dataset",
					"%s[%d]: missing required field %q", collection, i, field)
			}
		}
	}
	return nil
}
