// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spec defines the chart document model and its decoding and
// validation.
//
// A document is a Vega-Lite-like JSON (or YAML) object with a list of
// parameters, an inline dataset, a list of filter transforms and a
// vertical concatenation of bar chart views. Parse and Load return a
// *SchemaError for any document that cannot be rendered.
package spec

import (
	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/expr"
)

// Spec is a validated chart document. A Spec must not be modified
// after it is returned by Parse.
type Spec struct {
	Schema     string       `json:"$schema" validate:"required"`
	Config     Config       `json:"config"`
	Title      Title        `json:"title"`
	Params     []*Param     `json:"params" validate:"dive"`
	Data       Data         `json:"data"`
	Transforms []*Transform `json:"transform" validate:"dive"`
	VConcat    []*View      `json:"vconcat" validate:"required,min=1,dive"`
	Resolve    Resolve      `json:"resolve"`

	// Version is the major schema version.
	Version int `json:"-"`

	// Compat is set for documents using an older schema version
	// that are interpreted in compatibility mode.
	Compat bool `json:"-"`
}

// Config holds document-wide defaults.
type Config struct {
	View ViewConfig `json:"view"`
}

// ViewConfig gives default view sizes.
type ViewConfig struct {
	ContinuousWidth  float64 `json:"continuousWidth" validate:"gte=0"`
	ContinuousHeight float64 `json:"continuousHeight" validate:"gte=0"`
	DiscreteWidth    float64 `json:"discreteWidth" validate:"gte=0"`
	DiscreteHeight   float64 `json:"discreteHeight" validate:"gte=0"`
}

// Title is a chart title. In JSON it may be a string or an object.
type Title struct {
	Text     string `json:"text"`
	Subtitle string `json:"subtitle"`
}

// Param is a named parameter. Exactly one of Bind and Select is set
// for interactive parameters.
type Param struct {
	Name   string     `json:"name" validate:"required"`
	Value  data.Value `json:"value"`
	Bind   *Binding   `json:"bind"`
	Select *Selection `json:"select"`
}

// Binding binds a parameter to an input control or, for selections,
// to the scales of a view.
type Binding struct {
	// Input is the control type. Only "range" is supported.
	Input string  `json:"input" validate:"omitempty,eq=range"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max" validate:"gtefield=Min"`
	Step  float64 `json:"step" validate:"gte=0"`
	Name  string  `json:"name"`

	// Scales is set for the string binding "scales".
	Scales bool `json:"-"`
}

// Selection describes an interactive selection parameter.
type Selection struct {
	Type      string   `json:"type" validate:"required,eq=interval"`
	Encodings []string `json:"encodings" validate:"dive,oneof=x y"`
}

// Data is the inline dataset.
type Data struct {
	Values []data.Record `json:"values"`
}

// Transform is a data transform. Only filters are supported.
type Transform struct {
	Filter string `json:"filter" validate:"required"`

	// Pred is the parsed filter expression.
	Pred expr.Node `json:"-"`
}

// View is one bar chart in the vertical concatenation.
type View struct {
	Width      float64      `json:"width" validate:"gte=0"`
	Height     Size         `json:"height"`
	Mark       Mark         `json:"mark"`
	Params     []*Param     `json:"params" validate:"dive"`
	Transforms []*Transform `json:"transform" validate:"dive"`
	Encoding   Encoding     `json:"encoding"`
	Resolve    Resolve      `json:"resolve"`

	// Selections holds schema v4 selection definitions. They are
	// converted to Params in compatibility mode.
	Selections map[string]*LegacySelection `json:"selection"`
}

// LegacySelection is a schema v4 selection definition.
type LegacySelection struct {
	Type      string   `json:"type"`
	Bind      *Binding `json:"bind"`
	Encodings []string `json:"encodings"`
}

// Size is a view dimension: either a fixed size or a step per discrete
// category. In JSON it is a number or {"step": n}.
type Size struct {
	Fixed float64 `validate:"gte=0"`
	Step  float64 `validate:"gte=0"`
}

// Mark describes the mark type. In JSON it may be the type string or
// an object.
type Mark struct {
	Type string `json:"type" validate:"required,eq=bar"`
	Clip bool   `json:"clip"`

	// Height is the bar thickness in pixels, or 0 to fill the band.
	Height float64 `json:"height" validate:"gte=0"`
}

// Encoding maps visual channels to data fields.
type Encoding struct {
	X       *FieldDef  `json:"x" validate:"required"`
	Y       *FieldDef  `json:"y"`
	Color   *FieldDef  `json:"color"`
	Row     *FieldDef  `json:"row"`
	Tooltip []FieldDef `json:"tooltip" validate:"dive"`
}

// Measurement types.
const (
	Nominal      = "nominal"
	Ordinal      = "ordinal"
	Quantitative = "quantitative"
)

// FieldDef binds a channel to a field.
type FieldDef struct {
	Type   string    `json:"type" validate:"required,oneof=nominal ordinal quantitative"`
	Field  string    `json:"field" validate:"required"`
	Title  string    `json:"title"`
	Format string    `json:"format"`
	Scale  *ScaleDef `json:"scale"`
	Axis   *Axis     `json:"axis"`
	Sort   *Sort     `json:"sort"`
	Header *Header   `json:"header"`
}

// AxisTitle returns the axis title of f, or "" if it has none.
func (f *FieldDef) AxisTitle() string {
	if f.Axis != nil && f.Axis.Title != nil {
		return *f.Axis.Title
	}
	if f.Title != "" {
		return f.Title
	}
	return f.Field
}

// Discrete reports whether f uses a discrete scale.
func (f *FieldDef) Discrete() bool {
	return f.Type == Nominal || f.Type == Ordinal
}

// ScaleDef configures a scale.
type ScaleDef struct {
	Type        string   `json:"type" validate:"omitempty,oneof=linear band"`
	Domain      Domain   `json:"domain"`
	Range       []string `json:"range"`
	Interpolate string   `json:"interpolate" validate:"omitempty,oneof=rgb lab hcl"`
}

// Domain is an explicit scale domain: numeric stops for continuous
// scales or a category list for discrete scales.
type Domain struct {
	Nums []float64
	Cats []string
}

// Len returns the number of stops or categories in d.
func (d Domain) Len() int {
	return len(d.Nums) + len(d.Cats)
}

// Axis configures an axis and its gridlines.
type Axis struct {
	// Title is nil for the default title and "" for none.
	Title      *string    `json:"title"`
	Grid       *bool      `json:"grid"`
	GridColor  *CondValue `json:"gridColor"`
	GridDash   *CondValue `json:"gridDash"`
	GridWidth  *CondValue `json:"gridWidth"`
	LabelLimit float64    `json:"labelLimit" validate:"gte=0"`
}

// CondValue is a style value that may depend on a test expression
// evaluated against the axis tick, as in
//
//	{"condition": {"test": "datum.value % 10 === 0", "value": "#aaa"}, "value": "#ddd"}
type CondValue struct {
	Condition *Condition  `json:"condition"`
	Value     interface{} `json:"value"`
}

// Condition is the conditional branch of a CondValue.
type Condition struct {
	Test  string      `json:"test" validate:"required"`
	Value interface{} `json:"value"`

	// Pred is the parsed test expression.
	Pred expr.Node `json:"-"`
}

// Sort orders a discrete channel. In JSON it is a string ("ascending"
// or "descending") or {"field": f, "op": op, "order": o}. A nil Sort
// orders categories ascending.
type Sort struct {
	Field string `json:"field"`

	// Op aggregates Field over the records of each category. The
	// default is "min".
	Op    string `json:"op" validate:"omitempty,oneof=min max sum mean"`
	Order string `json:"order" validate:"omitempty,oneof=ascending descending"`
}

// Descending reports whether s sorts in descending order.
func (s *Sort) Descending() bool {
	return s != nil && s.Order == "descending"
}

// Header configures facet row headers.
type Header struct {
	LabelAngle  float64 `json:"labelAngle"`
	LabelAlign  string  `json:"labelAlign" validate:"omitempty,oneof=left center right"`
	LabelAnchor string  `json:"labelAnchor" validate:"omitempty,oneof=start middle end"`
	LabelOrient string  `json:"labelOrient" validate:"omitempty,oneof=left right top bottom"`
}

// Resolve gives the scale and axis resolution of a view's facets.
type Resolve struct {
	Axis  ResolveMap `json:"axis"`
	Scale ResolveMap `json:"scale"`
}

// Resolution modes.
const (
	Shared      = "shared"
	Independent = "independent"
)

// ResolveMap gives the resolution mode per channel.
type ResolveMap struct {
	X     string `json:"x" validate:"omitempty,oneof=shared independent"`
	Y     string `json:"y" validate:"omitempty,oneof=shared independent"`
	Color string `json:"color" validate:"omitempty,oneof=shared independent"`
}

// Merge returns r with empty channels filled in from outer.
func (r ResolveMap) Merge(outer ResolveMap) ResolveMap {
	if r.X == "" {
		r.X = outer.X
	}
	if r.Y == "" {
		r.Y = outer.Y
	}
	if r.Color == "" {
		r.Color = outer.Color
	}
	return r
}

// ResolvedScales returns the scale resolution of v, taking defaults
// from the document's top-level resolve.
func (s *Spec) ResolvedScales(v *View) ResolveMap {
	return v.Resolve.Scale.Merge(s.Resolve.Scale)
}

// ResolvedAxes returns the axis resolution of v, taking defaults from
// the document's top-level resolve. An axis of an independent scale is
// always independent.
func (s *Spec) ResolvedAxes(v *View) ResolveMap {
	r := v.Resolve.Axis.Merge(s.Resolve.Axis)
	sc := s.ResolvedScales(v)
	for _, ch := range []struct{ axis, scale *string }{{&r.X, &sc.X}, {&r.Y, &sc.Y}} {
		if *ch.scale == Independent {
			*ch.axis = Independent
		} else if *ch.axis == "" {
			*ch.axis = Shared
		}
	}
	return r
}

// Param returns the top-level parameter named name, or nil.
func (s *Spec) Param(name string) *Param {
	for _, p := range s.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Slider returns the first range-bound top-level parameter, or nil.
func (s *Spec) Slider() *Param {
	for _, p := range s.Params {
		if p.Bind != nil && p.Bind.Input == "range" {
			return p
		}
	}
	return nil
}

// ZoomParam returns the name of v's interval selection bound to
// scales, or "" if v has none.
func (v *View) ZoomParam() string {
	for _, p := range v.Params {
		if p.Select != nil && p.Bind != nil && p.Bind.Scales {
			return p.Name
		}
	}
	return ""
}

// Panelled reports whether v is faceted into rows.
func (v *View) Panelled() bool {
	return v.Encoding.Row != nil
}

// Fields returns the distinct fields v encodes, in channel order.
func (v *View) Fields() []string {
	var out []string
	seen := map[string]bool{}
	add := func(f *FieldDef) {
		if f != nil && !seen[f.Field] {
			seen[f.Field] = true
			out = append(out, f.Field)
		}
	}
	e := &v.Encoding
	add(e.Row)
	add(e.Y)
	add(e.X)
	add(e.Color)
	for i := range e.Tooltip {
		add(&e.Tooltip[i])
	}
	return out
}
