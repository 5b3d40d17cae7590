// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package facet

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/internal/theme"
	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/pipeline"
	"github.com/aclements/mwplot/scales"
	"github.com/aclements/mwplot/spec"
)

func rec(it int, name string, order float64, label string, cvv, w float64) data.Record {
	return data.Record{
		"iteration":               data.Num(float64(it)),
		"comparison_name":         data.Str(name),
		"comparison_sort_order":   data.Num(order),
		"label_for_charts":        data.Str(label),
		"comparison_vector_value": data.Num(cvv),
		"log2_bayes_factor":       data.Num(w),
	}
}

func TestPartition(t *testing.T) {
	row := &spec.FieldDef{Type: spec.Nominal, Field: "comparison_name", Sort: &spec.Sort{Field: "comparison_sort_order"}}
	recs := []data.Record{
		rec(0, "surname", 1, "Exact", 1, 4),
		rec(0, "first_name", 0, "Exact", 1, 5),
		rec(0, "surname", 1, "Other", 0, -3),
		rec(0, "dob", 2, "Other", 0, -1),
		rec(0, "first_name", 0, "Other", 0, -2),
	}
	groups := Partition(recs, row)
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	if diff := cmp.Diff([]string{"first_name", "surname", "dob"}, keys); diff != "" {
		t.Errorf("facet order (-want +got):\n%s", diff)
	}
	if got := groups[0].Records; len(got) != 2 || got[0]["log2_bayes_factor"] != data.Num(5) {
		t.Errorf("first_name facet = %v", got)
	}
	for i, want := range []int{2, 2, 1} {
		if got := len(groups[i].Records); got != want {
			t.Errorf("facet %q has %d records, want %d", groups[i].Key, got, want)
		}
	}

	if got := Partition(nil, row); got != nil {
		t.Errorf("Partition(nil) = %v, want nil", got)
	}
	if got := Partition(recs, nil); len(got) != 1 || len(got[0].Records) != len(recs) {
		t.Errorf("unfaceted Partition = %v, want one group of all records", got)
	}
}

// chart builds the canonical chart over recs and returns a function
// laying it out at an iteration.
func chart(t *testing.T, recs []data.Record) func(it int) *Layout {
	t.Helper()
	s, err := spec.MatchWeightChart(recs)
	if err != nil {
		t.Fatal(err)
	}
	st, err := param.FromSpec(s)
	if err != nil {
		t.Fatal(err)
	}
	return func(it int) *Layout {
		st.Set("iteration_number", it)
		snap := st.Snapshot()
		groups := make([][]data.Group, len(s.VConcat))
		for i, v := range s.VConcat {
			p, err := pipeline.New(s.Transforms, v.Transforms)
			if err != nil {
				t.Fatal(err)
			}
			groups[i] = Partition(p.Run(s.Data.Values, snap), v.Encoding.Row)
		}
		set, err := scales.Resolve(s, groups, snap)
		if err != nil {
			t.Fatal(err)
		}
		return Compose(s, groups, set, nil)
	}
}

func prior(it int, w float64) data.Record {
	return data.Record{
		"iteration":         data.Num(float64(it)),
		"comparison_name":   data.Str(spec.PriorComparison),
		"log2_bayes_factor": data.Num(w),
	}
}

func TestPanelsTrackIteration(t *testing.T) {
	recs := []data.Record{
		prior(0, -8), prior(1, -7),
		rec(0, "first_name", 0, "Exact", 1, 5),
		rec(0, "first_name", 0, "Other", 0, -2),
		rec(0, "dob", 1, "Exact", 1, 6),
		rec(1, "first_name", 0, "Exact", 1, 5.5),
	}
	layout := chart(t, recs)
	for _, test := range []struct {
		it   int
		want []string
	}{
		{0, []string{"first_name", "dob"}},
		{1, []string{"first_name"}},
		{2, nil},
	} {
		l := layout(test.it)
		var keys []string
		for _, p := range l.Views[1].Panels {
			keys = append(keys, p.Key)
		}
		if diff := cmp.Diff(test.want, keys); diff != "" {
			t.Errorf("iteration %d: panels (-want +got):\n%s", test.it, diff)
		}
	}
}

func TestCompose(t *testing.T) {
	l := chart(t, []data.Record{prior(0, 3), rec(0, "first_name", 0, "Exact", 1, -2)})(0)
	if len(l.Views) != 2 {
		t.Fatalf("got %d views, want 2", len(l.Views))
	}
	base, rows := l.Views[0], l.Views[1]
	if len(base.Panels) != 1 || len(rows.Panels) != 1 {
		t.Fatalf("got %d and %d panels, want 1 and 1", len(base.Panels), len(rows.Panels))
	}
	if h := base.Panels[0].Plot.H; h != 20 {
		t.Errorf("baseline height %v, want 20", h)
	}
	if h := rows.Panels[0].Plot.H; h != 12 {
		t.Errorf("facet height %v, want 12 for one category", h)
	}
	if base.Plot.X != rows.Plot.X || base.Plot.W != 400 || rows.Plot.W != 400 {
		t.Errorf("plot areas not aligned: %+v %+v", base.Plot, rows.Plot)
	}
	if rows.Plot.Y <= base.XAxis.Y+base.XAxis.H {
		t.Errorf("facet view %+v overlaps baseline axis %+v", rows.Plot, base.XAxis)
	}
	for _, v := range l.Views {
		if got := v.X.Map(-10); got != v.Plot.X {
			t.Errorf("view %d: x(-10) = %v, want %v", v.Index, got, v.Plot.X)
		}
		if got := v.X.Map(10); math.Abs(got-(v.Plot.X+v.Plot.W)) > 1e-9 {
			t.Errorf("view %d: x(10) = %v, want %v", v.Index, got, v.Plot.X+v.Plot.W)
		}
	}
	if y, ok := rows.Panels[0].Y.Map("Exact"); !ok || y < rows.Panels[0].Plot.Y {
		t.Errorf("y(Exact) = %v, %v outside panel %+v", y, ok, rows.Panels[0].Plot)
	}
	if l.Legend == nil || l.Legend.Title != "Match weight" {
		t.Fatalf("legend = %+v", l.Legend)
	}
	if diff := cmp.Diff([]string{"-10", "0", "10"}, l.Legend.Labels()); diff != "" {
		t.Errorf("legend labels (-want +got):\n%s", diff)
	}
	if l.Width <= l.Legend.Gradient.X || l.Height <= rows.XAxis.Y {
		t.Errorf("chart size %vx%v does not cover its contents", l.Width, l.Height)
	}
	if rows.Panels[0].Header.W < theme.TextWidth("first_name", theme.Default.FontSize) {
		t.Errorf("header %+v narrower than its label", rows.Panels[0].Header)
	}
}

func TestComposeEmpty(t *testing.T) {
	l := chart(t, nil)(0)
	if len(l.Views) != 2 {
		t.Fatalf("got %d views, want 2", len(l.Views))
	}
	if n := len(l.Views[1].Panels); n != 0 {
		t.Errorf("got %d facet panels for no data, want 0", n)
	}
	if n := len(l.Views[0].Panels); n != 1 {
		t.Errorf("got %d baseline panels, want 1", n)
	}
}
