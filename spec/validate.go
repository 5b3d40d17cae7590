// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/expr"
)

// Supported schema versions. Version 4 documents are read in
// compatibility mode.
const (
	CurrentVersion = 5
	CompatVersion  = 4
)

var schemaRE = regexp.MustCompile(`^https?://vega\.github\.io/schema/vega-lite/v([0-9]+)(\.[0-9]+)*\.json$`)

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report paths using JSON field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validate checks s and fills in its derived fields.
func validate(s *Spec) error {
	if err := structValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			path, _ := strings.CutPrefix(fe.Namespace(), "Spec.")
			msg := "failed " + fe.Tag()
			if fe.Param() != "" {
				msg += "=" + fe.Param()
			}
			if fe.Tag() == "required" {
				msg = "required field is missing"
			}
			return &SchemaError{Path: path, Msg: msg, Err: err}
		}
		return &SchemaError{Msg: err.Error(), Err: err}
	}

	if err := checkVersion(s); err != nil {
		return err
	}
	if s.Compat {
		if err := convertLegacy(s); err != nil {
			return err
		}
	} else {
		for i, v := range s.VConcat {
			if v.Selections != nil {
				return schemaErr(fmt.Sprintf("vconcat[%d].selection", i), "selection is not supported in v%d; use params", s.Version)
			}
		}
	}

	return checkData(s, true)
}

// checkData checks the expressions and encodings of s against its
// parameters and dataset. If compile is set, the parsed expressions
// are stored in s; otherwise s is only read.
func checkData(s *Spec, compile bool) error {
	names, err := checkParams(s)
	if err != nil {
		return err
	}

	c := &checker{params: names, compile: compile}
	if len(s.Data.Values) > 0 {
		c.fields = map[string]bool{}
		for _, f := range data.Fields(s.Data.Values) {
			c.fields[f] = true
		}
	}
	for i, t := range s.Transforms {
		if err := c.filter(fmt.Sprintf("transform[%d]", i), t); err != nil {
			return err
		}
	}
	for i, v := range s.VConcat {
		if err := c.view(fmt.Sprintf("vconcat[%d]", i), v); err != nil {
			return err
		}
	}
	return checkValues(s)
}

// WithData returns a copy of s whose dataset is recs. It returns a
// *SchemaError if the filters or quantitative channels of s do not
// fit recs. The copy shares the views and compiled expressions of s,
// which are not modified.
func (s *Spec) WithData(recs []data.Record) (*Spec, error) {
	s2 := *s
	s2.Data.Values = recs
	if err := checkData(&s2, false); err != nil {
		return nil, err
	}
	return &s2, nil
}

func checkVersion(s *Spec) error {
	m := schemaRE.FindStringSubmatch(s.Schema)
	if m == nil {
		return schemaErr("$schema", "unrecognized schema %q", s.Schema)
	}
	s.Version, _ = strconv.Atoi(m[1])
	switch s.Version {
	case CurrentVersion:
	case CompatVersion:
		s.Compat = true
	default:
		return schemaErr("$schema", "unsupported schema version v%d (want v%d or v%d)", s.Version, CurrentVersion, CompatVersion)
	}
	return nil
}

// convertLegacy rewrites v4 interval selections bound to scales as
// view params.
func convertLegacy(s *Spec) error {
	for i, v := range s.VConcat {
		names := make([]string, 0, len(v.Selections))
		for name := range v.Selections {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sel := v.Selections[name]
			path := fmt.Sprintf("vconcat[%d].selection.%s", i, name)
			if sel == nil || sel.Type != "interval" || sel.Bind == nil || !sel.Bind.Scales {
				return schemaErr(path, "only interval selections bound to scales are supported in v4 documents")
			}
			encs := sel.Encodings
			if encs == nil {
				encs = []string{"x"}
			}
			v.Params = append(v.Params, &Param{
				Name:   name,
				Bind:   &Binding{Scales: true},
				Select: &Selection{Type: "interval", Encodings: encs},
			})
		}
		v.Selections = nil
	}
	return nil
}

// checkParams checks parameter declarations and returns the set of
// declared parameter names.
func checkParams(s *Spec) (map[string]bool, error) {
	names := map[string]bool{}
	for i, p := range s.Params {
		path := fmt.Sprintf("params[%d]", i)
		if names[p.Name] {
			return nil, schemaErr(path+".name", "duplicate parameter %q", p.Name)
		}
		names[p.Name] = true
		if err := checkParam(path, p); err != nil {
			return nil, err
		}
	}

	// View params with the same name across views are one linked
	// selection and must agree.
	viewParams := map[string]*Param{}
	for i, v := range s.VConcat {
		local := map[string]bool{}
		for j, p := range v.Params {
			path := fmt.Sprintf("vconcat[%d].params[%d]", i, j)
			if local[p.Name] {
				return nil, schemaErr(path+".name", "duplicate parameter %q", p.Name)
			}
			local[p.Name] = true
			if s.Param(p.Name) != nil {
				return nil, schemaErr(path+".name", "parameter %q shadows a top-level parameter", p.Name)
			}
			if err := checkParam(path, p); err != nil {
				return nil, err
			}
			if p.Select == nil {
				return nil, schemaErr(path, "view parameters must be selections")
			}
			if prev := viewParams[p.Name]; prev != nil && !reflect.DeepEqual(prev.Select, p.Select) {
				return nil, schemaErr(path, "linked selection %q is declared differently in another view", p.Name)
			}
			viewParams[p.Name] = p
			names[p.Name] = true
		}
	}
	return names, nil
}

func checkParam(path string, p *Param) error {
	switch {
	case p.Select != nil:
		if p.Bind == nil || !p.Bind.Scales {
			return schemaErr(path+".bind", "interval selections must be bound to scales")
		}
		for _, enc := range p.Select.Encodings {
			if enc != "x" {
				return schemaErr(path+".select.encodings", "only x interval selections are supported")
			}
		}
	case p.Bind != nil:
		if p.Bind.Scales {
			return schemaErr(path+".bind", "only selections may be bound to scales")
		}
		if p.Bind.Input != "range" {
			return schemaErr(path+".bind.input", "unsupported input %q", p.Bind.Input)
		}
		if !p.Value.IsNull() {
			if _, ok := p.Value.Float(); !ok {
				return schemaErr(path+".value", "range parameter value must be a number")
			}
		}
	}
	return nil
}

type checker struct {
	params map[string]bool

	// compile is set if parsed expressions are stored in the spec.
	compile bool

	// fields is the set of dataset fields, or nil if the dataset
	// is empty and fields cannot be checked.
	fields map[string]bool
}

func (c *checker) expr(path, src string, fields map[string]bool) (expr.Node, error) {
	n, err := expr.Parse(src)
	if err != nil {
		return nil, &SchemaError{Path: path, Msg: err.Error(), Err: err}
	}
	fs, ps := expr.Names(n)
	for _, p := range ps {
		if !c.params[p] {
			return nil, schemaErr(path, "undeclared parameter %q", p)
		}
	}
	if fields != nil {
		for _, f := range fs {
			if !fields[f] {
				return nil, schemaErr(path, "unknown field %q", f)
			}
		}
	}
	return n, nil
}

func (c *checker) filter(path string, t *Transform) error {
	n, err := c.expr(path+".filter", t.Filter, c.fields)
	if err != nil {
		return err
	}
	if c.compile {
		t.Pred = n
	}
	return nil
}

// tickFields is the datum seen by axis condition tests.
var tickFields = map[string]bool{"value": true, "label": true}

func (c *checker) view(path string, v *View) error {
	for i, t := range v.Transforms {
		if err := c.filter(fmt.Sprintf("%s.transform[%d]", path, i), t); err != nil {
			return err
		}
	}

	e := &v.Encoding
	path += ".encoding"
	if e.X.Type != Quantitative {
		return schemaErr(path+".x.type", "x must be quantitative, not %s", e.X.Type)
	}
	if e.Y != nil && !e.Y.Discrete() {
		return schemaErr(path+".y.type", "y must be nominal or ordinal, not %s", e.Y.Type)
	}
	if e.Row != nil && !e.Row.Discrete() {
		return schemaErr(path+".row.type", "row must be nominal or ordinal, not %s", e.Row.Type)
	}
	if e.Color != nil && e.Color.Type != Quantitative {
		return schemaErr(path+".color.type", "color must be quantitative, not %s", e.Color.Type)
	}

	check := func(ch string, f *FieldDef) error {
		if f == nil {
			return nil
		}
		// Encoded fields may be missing from records; those values
		// are drawn as null.
		p := path + "." + ch
		if sc := f.Scale; sc != nil {
			switch {
			case f.Discrete() && (sc.Type == "linear" || sc.Domain.Nums != nil):
				return schemaErr(p+".scale", "%s channel needs a discrete scale", f.Type)
			case !f.Discrete() && (sc.Type == "band" || sc.Domain.Cats != nil):
				return schemaErr(p+".scale", "quantitative channel needs a continuous scale")
			}
			if ch == "color" {
				if sc.Domain.Len() == 1 {
					return schemaErr(p+".scale.domain", "color domain needs at least 2 stops")
				}
				if sc.Range != nil && sc.Domain.Len() != len(sc.Range) {
					return schemaErr(p+".scale.range", "range has %d colors for %d domain stops", len(sc.Range), sc.Domain.Len())
				}
			} else if n := len(sc.Domain.Nums); n != 0 && n != 2 {
				return schemaErr(p+".scale.domain", "continuous domain must be [min, max]")
			}
			if n := sc.Domain.Nums; len(n) >= 2 {
				for i := 1; i < len(n); i++ {
					if !(n[i-1] < n[i]) {
						return schemaErr(p+".scale.domain", "domain must be strictly increasing")
					}
				}
			}
		}
		if a := f.Axis; a != nil {
			for _, g := range []struct {
				name string
				cv   *CondValue
			}{{"gridColor", a.GridColor}, {"gridDash", a.GridDash}, {"gridWidth", a.GridWidth}} {
				cv := g.cv
				if cv == nil || cv.Condition == nil {
					continue
				}
				n, err := c.expr(p+".axis."+g.name+".condition.test", cv.Condition.Test, tickFields)
				if err != nil {
					return err
				}
				if c.compile {
					cv.Condition.Pred = n
				}
			}
		}
		return nil
	}
	for _, ch := range []struct {
		name string
		f    *FieldDef
	}{{"x", e.X}, {"y", e.Y}, {"color", e.Color}, {"row", e.Row}} {
		if err := check(ch.name, ch.f); err != nil {
			return err
		}
	}
	for i := range e.Tooltip {
		if err := check(fmt.Sprintf("tooltip[%d]", i), &e.Tooltip[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkValues checks that every field bound to a quantitative channel
// holds only numbers or nulls.
func checkValues(s *Spec) error {
	var fields []string
	quant := map[string]string{}
	for i, v := range s.VConcat {
		e := &v.Encoding
		fds := []*FieldDef{e.X, e.Y, e.Color, e.Row}
		for j := range e.Tooltip {
			fds = append(fds, &e.Tooltip[j])
		}
		for _, f := range fds {
			if f != nil && f.Type == Quantitative {
				if _, ok := quant[f.Field]; !ok {
					quant[f.Field] = fmt.Sprintf("vconcat[%d].encoding", i)
					fields = append(fields, f.Field)
				}
			}
		}
	}
	for i, rec := range s.Data.Values {
		for _, field := range fields {
			v, ok := rec[field]
			if !ok || v.IsNull() {
				continue
			}
			if _, isNum := v.Float(); !isNum {
				return schemaErr(fmt.Sprintf("data.values[%d].%s", i, field), "%s binds %s as quantitative, but value is %s %q", quant[field], field, v.Kind(), v)
			}
		}
	}
	return nil
}
