/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package dataset normalizes raw JSON payloads into uniform rows of typed
// values.
//
// A payload may be an array of objects (`[{"Year": 1995, ...}, ...]`), an
// array of tuples (`[["1947-01-01", 243.1], ...]`), or either of those nested
// under a key of a top-level object whose other keys hold dataset-wide
// scalars (`{"baseTemperature": 8.66, "monthlyVariance": [...]}`).  A Schema
// names the fields to extract, their kinds, and any fields derived from
// them.  Every normalized Row exposes the same field set.
//
// Rows whose fields cannot be parsed as their declared kind are malformed.
// They are dropped from the Dataset and collected into a single error,
// available from Dataset.Err(), so that the problem is reported once at load
// time rather than once per render.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilhamster/chartkit/util"
)

// ErrMalformedRow is matched (via errors.Is) by all malformed-row errors.
var ErrMalformedRow = errors.New("malformed row")

// MalformedRowError describes a single row that could not be normalized.
type MalformedRowError struct {
	// The index of the row within the raw payload.
	Index int
	// The field that could not be normalized.
	Field string
	Err   error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: field '%s': %s", e.Index, e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedRow.
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// MalformedRows aggregates the malformed rows of one payload.
type MalformedRows []*MalformedRowError

const maxReportedRows = 3

func (mr MalformedRows) Error() string {
	msgs := []string{}
	for idx, err := range mr {
		if idx == maxReportedRows {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(mr)-maxReportedRows))
			break
		}
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d malformed rows: %s", len(mr), strings.Join(msgs, "; "))
}

// Unwrap returns the individual malformed-row errors.
func (mr MalformedRows) Unwrap() []error {
	ret := make([]error, len(mr))
	for idx, err := range mr {
		ret[idx] = err
	}
	return ret
}

// Row is a single normalized record, mapping field names to values.  A field
// whose optional value was absent maps to nil.
type Row map[string]*util.V

// Value returns the value of the specified field, or nil.
func (r Row) Value(field string) *util.V {
	return r[field]
}

// Number returns the specified field as a float64.  Integers, doubles and
// durations (as seconds) are numbers.
func (r Row) Number(field string) (float64, bool) {
	v := r[field]
	if v == nil {
		return 0, false
	}
	f, err := util.ExpectNumberValue(v)
	return f, err == nil
}

// Time returns the specified field as a timestamp.
func (r Row) Time(field string) (time.Time, bool) {
	v := r[field]
	if v == nil {
		return time.Time{}, false
	}
	t, err := util.ExpectTimestampValue(v)
	return t, err == nil
}

// Text returns the display text of the specified field, or "" if it is
// absent.
func (r Row) Text(field string) string {
	return r[field].Text()
}

// Dataset is a normalized payload.  Callers must treat its Rows as
// read-only.
type Dataset struct {
	// Rows holds the well-formed rows in payload order.
	Rows []Row
	// Meta holds dataset-wide scalars.
	Meta Row
	// Fields holds the names of all row fields, declared and derived, in
	// schema order.
	Fields    []string
	malformed MalformedRows
}

// FromRows returns a Dataset over already-normalized rows.
func FromRows(fields []string, rows ...Row) *Dataset {
	return &Dataset{
		Rows:   rows,
		Meta:   Row{},
		Fields: append([]string{}, fields...),
	}
}

// Len returns the number of well-formed rows in the receiver.
func (ds *Dataset) Len() int {
	return len(ds.Rows)
}

// Err returns a MalformedRows error describing the rows dropped during
// normalization, or nil if there were none.
func (ds *Dataset) Err() error {
	if len(ds.malformed) == 0 {
		return nil
	}
	return ds.malformed
}

// Column returns the values of the specified field across all rows.
func (ds *Dataset) Column(field string) []*util.V {
	ret := make([]*util.V, len(ds.Rows))
	for idx, row := range ds.Rows {
		ret[idx] = row[field]
	}
	return ret
}

// Field describes one field to extract from each raw record.
type Field struct {
	// Name is the field's name in normalized rows.
	Name string
	// Source is the key of the field within object records.  It defaults to
	// Name.  Tuple records are read positionally.
	Source string
	Kind   Kind
	// Layout is the time layout of Time fields, defaulting to "2006-01-02".
	Layout string
	// Optional fields may be missing, null or empty; such fields are nil.
	Optional bool
}

func (f Field) source() string {
	if f.Source != "" {
		return f.Source
	}
	return f.Name
}

// DeriveFunc computes a derived field from a normalized row and the
// dataset-wide scalars.
type DeriveFunc func(row, meta Row) (*util.V, error)

// Derived describes a field computed from other fields.  Derived fields are
// computed in order, so later ones may read earlier ones.
type Derived struct {
	Name   string
	Derive DeriveFunc
}

// Schema describes how to normalize a raw payload.
type Schema struct {
	// Root is the key of the record array within a top-level object.  If
	// empty, the payload itself must be the record array.
	Root string
	// Meta describes the dataset-wide scalars of a top-level object.
	Meta []Field
	// Tuples indicates that records are arrays read positionally into
	// Fields.
	Tuples  bool
	Fields  []Field
	Derived []Derived
	// If Strict is set, any malformed row leaves the Dataset empty.
	Strict bool
}

// fieldNames returns the receiver's row field names in order.
func (s *Schema) fieldNames() []string {
	ret := make([]string, 0, len(s.Fields)+len(s.Derived))
	for _, f := range s.Fields {
		ret = append(ret, f.Name)
	}
	for _, d := range s.Derived {
		ret = append(ret, d.Name)
	}
	return ret
}

func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var ret any
	if err := dec.Decode(&ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Normalize normalizes the provided raw JSON payload per the provided Schema.
// It fails only if the payload as a whole is unusable; malformed rows are
// reported by the returned Dataset's Err().
func Normalize(raw []byte, schema *Schema) (*Dataset, error) {
	payload, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	ds := &Dataset{
		Meta:   Row{},
		Fields: schema.fieldNames(),
	}
	records := payload
	if schema.Root != "" || len(schema.Meta) > 0 {
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a top-level object, got %T", payload)
		}
		for _, f := range schema.Meta {
			v, err := f.parse(obj[f.source()])
			if err != nil {
				return nil, fmt.Errorf("dataset field '%s': %w", f.Name, err)
			}
			ds.Meta[f.Name] = v
		}
		if schema.Root != "" {
			var ok bool
			if records, ok = obj[schema.Root]; !ok {
				return nil, fmt.Errorf("dataset has no '%s' key", schema.Root)
			}
		}
	}
	recordList, ok := records.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of records, got %T", records)
	}
	for idx, record := range recordList {
		row, err := schema.normalizeRecord(record, ds.Meta)
		if err != nil {
			err.Index = idx
			ds.malformed = append(ds.malformed, err)
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}
	if schema.Strict && len(ds.malformed) > 0 {
		ds.Rows = nil
	}
	return ds, nil
}

func (s *Schema) normalizeRecord(record any, meta Row) (Row, *MalformedRowError) {
	row := make(Row, len(s.Fields)+len(s.Derived))
	var get func(idx int, f Field) any
	if s.Tuples {
		tuple, ok := record.([]any)
		if !ok {
			return nil, &MalformedRowError{Err: fmt.Errorf("expected a tuple, got %T", record)}
		}
		get = func(idx int, f Field) any {
			if idx >= len(tuple) {
				return nil
			}
			return tuple[idx]
		}
	} else {
		obj, ok := record.(map[string]any)
		if !ok {
			return nil, &MalformedRowError{Err: fmt.Errorf("expected an object, got %T", record)}
		}
		get = func(idx int, f Field) any {
			return obj[f.source()]
		}
	}
	for idx, f := range s.Fields {
		v, err := f.parse(get(idx, f))
		if err != nil {
			return nil, &MalformedRowError{Field: f.Name, Err: err}
		}
		row[f.Name] = v
	}
	for _, d := range s.Derived {
		v, err := d.Derive(row, meta)
		if err != nil {
			return nil, &MalformedRowError{Field: d.Name, Err: err}
		}
		row[d.Name] = v
	}
	return row, nil
}
