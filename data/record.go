// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
)

// Warning is the logger used to report recovered data shape problems.
var Warning = log.New(os.Stderr, "[data] ", log.Lshortfile)

// A Record is one row of a dataset.
type Record map[string]Value

// DataShapeError reports a record that does not have the shape a
// chart expects, such as a missing field.
type DataShapeError struct {
	Field  string
	Record Record
	Msg    string
}

func (e *DataShapeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("record has no field %q", e.Field)
}

// Lookup returns the value of field in r. It returns a
// *DataShapeError if r has no such field.
func (r Record) Lookup(field string) (Value, error) {
	v, ok := r[field]
	if !ok {
		return NullValue, &DataShapeError{Field: field, Record: r}
	}
	return v, nil
}

// Get returns the value of field in r, or null if r has no such
// field. A missing field is logged to Warning.
func (r Record) Get(field string) Value {
	v, err := r.Lookup(field)
	if err != nil {
		Warning.Print(err)
	}
	return v
}

// Number returns field as a number, or NaN if it is null, missing or
// not a number. Missing and non-numeric fields are logged.
func (r Record) Number(field string) float64 {
	v := r.Get(field)
	x, ok := v.Float()
	if !ok && !v.IsNull() {
		Warning.Print(&DataShapeError{Field: field, Record: r, Msg: fmt.Sprintf("want number, got %s %q", v.Kind(), v)})
		return math.NaN()
	}
	return x
}

// Decode reads a JSON array of objects from r.
func Decode(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	for i, rec := range recs {
		if rec == nil {
			return nil, fmt.Errorf("decoding records: record %d is null", i)
		}
	}
	return recs, nil
}

// Fields returns the sorted union of the field names in recs.
func Fields(recs []Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range recs {
		for name := range rec {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// A Group is a subset of records sharing a grouping key, such as the
// records of one facet panel.
type Group struct {
	// Key identifies the group. It is "" for an ungrouped view.
	Key string

	Records []Record
}
