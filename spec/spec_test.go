// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aclements/mwplot/data"
)

const minimalDoc = `{
  "$schema": "https://vega.github.io/schema/vega-lite/v5.json",
  "params": [{"name": "n", "value": 0, "bind": {"input": "range", "min": 0, "max": 10, "step": 1}}],
  "data": {"values": [{"a": 1, "b": "x"}, {"a": null, "b": "y"}]},
  "transform": [{"filter": "datum.a == n"}],
  "vconcat": [{
    "mark": "bar",
    "height": {"step": 12},
    "encoding": {
      "x": {"type": "quantitative", "field": "a"},
      "y": {"type": "nominal", "field": "b", "sort": "descending"}
    }
  }]
}`

// mutate decodes minimalDoc, applies f to it and re-encodes it.
func mutate(t *testing.T, f func(doc map[string]interface{})) []byte {
	t.Helper()
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(minimalDoc), &doc); err != nil {
		t.Fatal(err)
	}
	f(doc)
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func view0(doc map[string]interface{}) map[string]interface{} {
	return doc["vconcat"].([]interface{})[0].(map[string]interface{})
}

func enc0(doc map[string]interface{}) map[string]interface{} {
	return view0(doc)["encoding"].(map[string]interface{})
}

func TestParseMinimal(t *testing.T) {
	s, err := Parse([]byte(minimalDoc))
	if err != nil {
		t.Fatal(err)
	}
	if s.Version != 5 || s.Compat {
		t.Errorf("got version %d compat %v, want 5 false", s.Version, s.Compat)
	}
	v := s.VConcat[0]
	if v.Mark.Type != "bar" {
		t.Errorf("mark type %q, want bar", v.Mark.Type)
	}
	if v.Height != (Size{Step: 12}) {
		t.Errorf("height %+v, want step 12", v.Height)
	}
	if !v.Encoding.Y.Sort.Descending() {
		t.Errorf("y sort %+v, want descending", v.Encoding.Y.Sort)
	}
	if s.Transforms[0].Pred == nil {
		t.Errorf("filter was not compiled")
	}
	if p := s.Slider(); p == nil || p.Name != "n" || p.Bind.Max != 10 {
		t.Errorf("Slider() = %+v", p)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		f    func(doc map[string]interface{})
		path string
	}{
		{"no schema", func(doc map[string]interface{}) { delete(doc, "$schema") }, "$schema"},
		{"old schema", func(doc map[string]interface{}) {
			doc["$schema"] = "https://vega.github.io/schema/vega-lite/v3.json"
		}, "$schema"},
		{"foreign schema", func(doc map[string]interface{}) {
			doc["$schema"] = "https://example.com/chart.json"
		}, "$schema"},
		{"no views", func(doc map[string]interface{}) { doc["vconcat"] = []interface{}{} }, "vconcat"},
		{"bad filter", func(doc map[string]interface{}) {
			doc["transform"] = []interface{}{map[string]interface{}{"filter": "datum.a =="}}
		}, "transform[0].filter"},
		{"undeclared param", func(doc map[string]interface{}) {
			doc["transform"] = []interface{}{map[string]interface{}{"filter": "datum.a == m"}}
		}, "transform[0].filter"},
		{"unknown field", func(doc map[string]interface{}) {
			doc["transform"] = []interface{}{map[string]interface{}{"filter": "datum.c == n"}}
		}, "transform[0].filter"},
		{"unknown type", func(doc map[string]interface{}) {
			enc0(doc)["y"].(map[string]interface{})["type"] = "temporal"
		}, "vconcat[0].encoding.y.type"},
		{"no x", func(doc map[string]interface{}) { delete(enc0(doc), "x") }, "vconcat[0].encoding.x"},
		{"quantitative y", func(doc map[string]interface{}) {
			enc0(doc)["y"].(map[string]interface{})["type"] = "quantitative"
		}, "vconcat[0].encoding.y.type"},
		{"non-numeric quantitative", func(doc map[string]interface{}) {
			enc0(doc)["x"].(map[string]interface{})["field"] = "b"
		}, "data.values[0].b"},
		{"line mark", func(doc map[string]interface{}) { view0(doc)["mark"] = "line" }, "vconcat[0].mark.type"},
		{"duplicate param", func(doc map[string]interface{}) {
			doc["params"] = append(doc["params"].([]interface{}), doc["params"].([]interface{})[0])
		}, "params[1].name"},
		{"v4 selection in v5", func(doc map[string]interface{}) {
			view0(doc)["selection"] = map[string]interface{}{"z": map[string]interface{}{"type": "interval", "bind": "scales"}}
		}, "vconcat[0].selection"},
		{"unbound selection", func(doc map[string]interface{}) {
			view0(doc)["params"] = []interface{}{map[string]interface{}{"name": "z", "select": map[string]interface{}{"type": "interval"}}}
		}, "vconcat[0].params[0].bind"},
		{"color range length", func(doc map[string]interface{}) {
			enc0(doc)["color"] = map[string]interface{}{
				"type": "quantitative", "field": "a",
				"scale": map[string]interface{}{"domain": []interface{}{-1, 1}, "range": []interface{}{"red"}},
			}
		}, "vconcat[0].encoding.color.scale.range"},
		{"one-stop color domain", func(doc map[string]interface{}) {
			enc0(doc)["color"] = map[string]interface{}{
				"type": "quantitative", "field": "a",
				"scale": map[string]interface{}{"domain": []interface{}{5}, "range": []interface{}{"red"}},
			}
		}, "vconcat[0].encoding.color.scale.domain"},
		{"bad interpolation", func(doc map[string]interface{}) {
			enc0(doc)["color"] = map[string]interface{}{
				"type": "quantitative", "field": "a",
				"scale": map[string]interface{}{"interpolate": "cubehelix"},
			}
		}, "vconcat[0].encoding.color.scale.interpolate"},
		{"bad grid test", func(doc map[string]interface{}) {
			enc0(doc)["x"].(map[string]interface{})["axis"] = map[string]interface{}{
				"gridColor": map[string]interface{}{"condition": map[string]interface{}{"test": "datum.a > 1", "value": "red"}},
			}
		}, "vconcat[0].encoding.x.axis.gridColor.condition.test"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(mutate(t, test.f))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("want SchemaError, got %v", err)
			}
			if se.Path != test.path {
				t.Errorf("error %q has path %q, want %q", se, se.Path, test.path)
			}
		})
	}
}

func TestLinkedSelectionsMustAgree(t *testing.T) {
	b := mutate(t, func(doc map[string]interface{}) {
		v := view0(doc)
		v["params"] = []interface{}{map[string]interface{}{
			"name": "z", "bind": "scales",
			"select": map[string]interface{}{"type": "interval", "encodings": []interface{}{"x"}},
		}}
		v2 := map[string]interface{}{}
		for k, x := range v {
			v2[k] = x
		}
		v2["params"] = []interface{}{map[string]interface{}{
			"name": "z", "bind": "scales",
			"select": map[string]interface{}{"type": "interval"},
		}}
		doc["vconcat"] = []interface{}{v, v2}
	})
	_, err := Parse(b)
	if err == nil || !strings.Contains(err.Error(), "declared differently") {
		t.Errorf("got %v, want linked selection error", err)
	}
}

func TestSelectShorthand(t *testing.T) {
	b := mutate(t, func(doc map[string]interface{}) {
		view0(doc)["params"] = []interface{}{map[string]interface{}{
			"name": "z", "bind": "scales", "select": "interval",
		}}
	})
	s, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.VConcat[0].ZoomParam(); got != "z" {
		t.Errorf("ZoomParam() = %q, want z", got)
	}
	if sel := s.VConcat[0].Params[0].Select; sel.Type != "interval" || sel.Encodings != nil {
		t.Errorf("select = %+v, want interval with default encodings", sel)
	}
}

func TestCompat(t *testing.T) {
	b := mutate(t, func(doc map[string]interface{}) {
		doc["$schema"] = "https://vega.github.io/schema/vega-lite/v4.17.0.json"
		view0(doc)["selection"] = map[string]interface{}{
			"mouse_zoom": map[string]interface{}{"type": "interval", "bind": "scales", "encodings": []interface{}{"x"}},
		}
	})
	s, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Compat || s.Version != 4 {
		t.Errorf("got version %d compat %v, want 4 true", s.Version, s.Compat)
	}
	if got := s.VConcat[0].ZoomParam(); got != "mouse_zoom" {
		t.Errorf("ZoomParam() = %q, want mouse_zoom", got)
	}
}

func TestMatchWeightChart(t *testing.T) {
	recs := []data.Record{
		{"iteration": data.Num(0), "comparison_name": data.Str(PriorComparison), "log2_bayes_factor": data.Num(3)},
		{"iteration": data.Num(0), "comparison_name": data.Str("first_name"), "log2_bayes_factor": data.Num(-2)},
	}
	s, err := MatchWeightChart(recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.VConcat) != 2 {
		t.Fatalf("got %d views, want 2", len(s.VConcat))
	}
	base, facets := s.VConcat[0], s.VConcat[1]
	if base.Height.Fixed != 20 || facets.Height.Step != 12 {
		t.Errorf("heights %+v %+v, want fixed 20 and step 12", base.Height, facets.Height)
	}
	if base.ZoomParam() != "mouse_zoom" || facets.ZoomParam() != "mouse_zoom" {
		t.Errorf("both views should declare mouse_zoom")
	}
	if facets.Encoding.Row == nil || facets.Encoding.Row.Sort.Field != FieldSortOrder {
		t.Errorf("row facet %+v, want sort by %s", facets.Encoding.Row, FieldSortOrder)
	}
	cs := base.Encoding.Color.Scale
	if diff := cmp.Diff([]float64{-10, 0, 10}, cs.Domain.Nums); diff != "" {
		t.Errorf("color domain (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"red", "#bbbbbb", "green"}, cs.Range); diff != "" {
		t.Errorf("color range (-want +got):\n%s", diff)
	}
	if got := s.ResolvedScales(facets).Y; got != Independent {
		t.Errorf("facet y resolution %q, want independent", got)
	}
	if c := base.Encoding.X.Axis.GridColor.Condition; c == nil || c.Pred == nil {
		t.Errorf("grid condition not compiled")
	}
	if got := base.Encoding.Y.AxisTitle(); got != "" {
		t.Errorf("null y axis title decoded as %q", got)
	}
	if got := base.Encoding.X.AxisTitle(); got != "Prior (starting) match weight" {
		t.Errorf("x axis title %q", got)
	}
	if got := (&FieldDef{Field: "w"}).AxisTitle(); got != "w" {
		t.Errorf("default axis title %q, want w", got)
	}

	// The empty dataset is valid.
	if _, err := MatchWeightChart(nil); err != nil {
		t.Errorf("empty dataset: %v", err)
	}

	// Text in a quantitative field is not.
	bad := []data.Record{{"iteration": data.Num(0), "comparison_name": data.Str("x"), "log2_bayes_factor": data.Str("high")}}
	if _, err := MatchWeightChart(bad); err == nil {
		t.Errorf("want error for string match weight")
	}
}

func TestLoadYAML(t *testing.T) {
	const doc = `
$schema: https://vega.github.io/schema/vega-lite/v5.json
title: Weights
params:
  - name: n
    value: 1
    bind: {input: range, min: 0, max: 3, step: 1}
data:
  values:
    - {a: 1.5, b: x}
transform:
  - filter: datum.a > n
vconcat:
  - mark: {type: bar}
    height: 20
    encoding:
      x: {type: quantitative, field: a, scale: {domain: [-10, 10]}}
      y: {type: nominal, field: b}
`
	path := filepath.Join(t.TempDir(), "chart.yaml")
	if err := os.WriteFile(path, []byte(doc), 0666); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Title.Text != "Weights" {
		t.Errorf("title %q, want Weights", s.Title.Text)
	}
	if got := s.VConcat[0].Encoding.X.Scale.Domain.Nums; !cmp.Equal(got, []float64{-10, 10}) {
		t.Errorf("x domain %v, want [-10 10]", got)
	}
	if x, _ := s.Data.Values[0]["a"].Float(); x != 1.5 {
		t.Errorf("a = %v, want 1.5", x)
	}
}

func TestWithData(t *testing.T) {
	s, err := Parse([]byte(minimalDoc))
	if err != nil {
		t.Fatal(err)
	}
	pred := s.Transforms[0].Pred
	recs := []data.Record{{"a": data.Num(2), "b": data.Str("z")}}
	s2, err := s.WithData(recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(s2.Data.Values) != 1 || len(s.Data.Values) != 2 {
		t.Errorf("got %d and %d records, want 1 in the copy and 2 in the original", len(s2.Data.Values), len(s.Data.Values))
	}
	if s.Transforms[0].Pred != pred || s2.Transforms[0].Pred != pred {
		t.Errorf("WithData recompiled the shared filter")
	}

	var se *SchemaError
	_, err = s.WithData([]data.Record{{"a": data.Str("high"), "b": data.Str("z")}})
	if !errors.As(err, &se) {
		t.Errorf("non-numeric quantitative value: got %v, want a SchemaError", err)
	}
	_, err = s.WithData([]data.Record{{"b": data.Str("z")}})
	if !errors.As(err, &se) || !strings.Contains(se.Msg, "unknown field") {
		t.Errorf("filter on a field missing from the data: got %v, want an unknown field error", err)
	}
}
