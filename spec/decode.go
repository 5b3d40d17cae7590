// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaError reports a document that is malformed or cannot be
// rendered. It is always fatal.
type SchemaError struct {
	// Path locates the problem in the document, such as
	// "vconcat[1].encoding.row.field".
	Path string
	Msg  string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "spec: " + e.Msg
	}
	return "spec: " + e.Path + ": " + e.Msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaErr(path, format string, a ...interface{}) *SchemaError {
	return &SchemaError{Path: path, Msg: fmt.Sprintf(format, a...)}
}

// Parse decodes and validates a JSON chart document.
func Parse(b []byte) (*Spec, error) {
	s, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseYAML decodes and validates a chart document written in YAML.
// The YAML document has the same shape as the JSON one.
func ParseYAML(b []byte) (*Spec, error) {
	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, &SchemaError{Msg: "decoding YAML: " + err.Error(), Err: err}
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return nil, &SchemaError{Msg: "converting YAML: " + err.Error(), Err: err}
	}
	return Parse(j)
}

// Load reads a chart document from path. Files ending in .yaml or
// .yml are decoded as YAML, all others as JSON.
func Load(path string) (*Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s *Spec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(b)
	default:
		s, err = Parse(b)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func decode(b []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, &SchemaError{Msg: "decoding JSON: " + err.Error(), Err: err}
	}
	return &s, nil
}

// isString reports whether b holds a JSON string.
func isString(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '"'
}

func (t *Title) UnmarshalJSON(b []byte) error {
	if isString(b) {
		return json.Unmarshal(b, &t.Text)
	}
	type title Title
	return json.Unmarshal(b, (*title)(t))
}

func (bd *Binding) UnmarshalJSON(b []byte) error {
	if isString(b) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != "scales" {
			return fmt.Errorf("unsupported binding %q", s)
		}
		*bd = Binding{Scales: true}
		return nil
	}
	type binding Binding
	return json.Unmarshal(b, (*binding)(bd))
}

func (sel *Selection) UnmarshalJSON(b []byte) error {
	if isString(b) {
		*sel = Selection{}
		return json.Unmarshal(b, &sel.Type)
	}
	type selection Selection
	return json.Unmarshal(b, (*selection)(sel))
}

func (sz *Size) UnmarshalJSON(b []byte) error {
	var step struct {
		Step float64 `json:"step"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		if err := json.Unmarshal(b, &step); err != nil {
			return err
		}
		*sz = Size{Step: step.Step}
		return nil
	}
	var x float64
	if err := json.Unmarshal(b, &x); err != nil {
		return fmt.Errorf("size must be a number or {\"step\": n}")
	}
	*sz = Size{Fixed: x}
	return nil
}

func (m *Mark) UnmarshalJSON(b []byte) error {
	if isString(b) {
		*m = Mark{}
		return json.Unmarshal(b, &m.Type)
	}
	type mark Mark
	return json.Unmarshal(b, (*mark)(m))
}

func (d *Domain) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("domain must be an array")
	}
	*d = Domain{}
	for _, elt := range raw {
		if isString(elt) {
			var s string
			if err := json.Unmarshal(elt, &s); err != nil {
				return err
			}
			d.Cats = append(d.Cats, s)
			continue
		}
		var x float64
		if err := json.Unmarshal(elt, &x); err != nil {
			return fmt.Errorf("domain elements must be numbers or strings")
		}
		d.Nums = append(d.Nums, x)
	}
	if d.Nums != nil && d.Cats != nil {
		return fmt.Errorf("domain mixes numbers and strings")
	}
	return nil
}

func (s *Sort) UnmarshalJSON(b []byte) error {
	if isString(b) {
		*s = Sort{}
		return json.Unmarshal(b, &s.Order)
	}
	type sort Sort
	return json.Unmarshal(b, (*sort)(s))
}

func (a *Axis) UnmarshalJSON(b []byte) error {
	type axis Axis
	if err := json.Unmarshal(b, (*axis)(a)); err != nil {
		return err
	}
	// A null title hides the title; an absent one uses the default.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if t, ok := raw["title"]; ok && bytes.Equal(bytes.TrimSpace(t), []byte("null")) {
		a.Title = new(string)
	}
	return nil
}
