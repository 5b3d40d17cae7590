// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/spec"
)

func init() {
	Warning.SetOutput(io.Discard)
}

// records returns a match weight dataset with 3 comparisons over
// iterations 0 to 3. Comparison "dob" only appears in iteration 0.
func records() []data.Record {
	var recs []data.Record
	for it := 0; it <= 3; it++ {
		recs = append(recs, data.Record{
			"iteration":         data.Num(float64(it)),
			"comparison_name":   data.Str(spec.PriorComparison),
			"label_for_charts":  data.Str(""),
			"log2_bayes_factor": data.Num(-8 + float64(it)),
		})
		for _, name := range []string{"first_name", "surname", "dob"} {
			if name == "dob" && it > 0 {
				continue
			}
			for level := 0; level < 3; level++ {
				recs = append(recs, data.Record{
					"iteration":         data.Num(float64(it)),
					"comparison_name":   data.Str(name),
					"label_for_charts":  data.Str(fmt.Sprintf("level %d", level)),
					"log2_bayes_factor": data.Num(float64(3*level - 4 + it)),
				})
			}
		}
	}
	return recs
}

func chart(t *testing.T) (*spec.Spec, *param.Store) {
	t.Helper()
	s, err := spec.MatchWeightChart(records())
	if err != nil {
		t.Fatal(err)
	}
	st, err := param.FromSpec(s)
	if err != nil {
		t.Fatal(err)
	}
	return s, st
}

func TestIterationFilterExact(t *testing.T) {
	s, st := chart(t)
	base, err := New(s.Transforms)
	if err != nil {
		t.Fatal(err)
	}
	for it := 0; it <= 4; it++ {
		st.Set("iteration_number", it)
		out := base.Run(s.Data.Values, st.Snapshot())
		want := 0
		for _, rec := range s.Data.Values {
			if x, _ := rec["iteration"].Float(); x == float64(it) {
				want++
			}
		}
		if len(out) != want {
			t.Errorf("iteration %d: got %d records, want %d", it, len(out), want)
		}
		for _, rec := range out {
			if x, _ := rec["iteration"].Float(); x != float64(it) {
				t.Errorf("iteration %d: record %v survived filter", it, rec)
			}
		}
	}
}

func TestViewsPartition(t *testing.T) {
	s, st := chart(t)
	base, _ := New(s.Transforms)
	views := make([]*Pipeline, len(s.VConcat))
	for i, v := range s.VConcat {
		var err error
		if views[i], err = New(v.Transforms); err != nil {
			t.Fatal(err)
		}
	}

	for it := 0; it <= 3; it++ {
		st.Set("iteration_number", it)
		snap := st.Snapshot()
		all := base.Run(s.Data.Values, snap)
		// Every record is unique, so count by printed form.
		count := map[string]int{}
		for _, p := range views {
			for _, rec := range p.Run(all, snap) {
				count[fmt.Sprint(rec)]++
			}
		}
		if len(count) != len(all) {
			t.Errorf("iteration %d: views hold %d distinct records, want %d", it, len(count), len(all))
		}
		for _, rec := range all {
			if n := count[fmt.Sprint(rec)]; n != 1 {
				t.Errorf("iteration %d: record %v appears in %d views", it, rec, n)
			}
		}
	}
}

func TestRunResilient(t *testing.T) {
	var buf bytes.Buffer
	Warning = log.New(&buf, "", 0)
	defer func() { Warning = log.New(io.Discard, "", 0) }()

	p, err := New([]*spec.Transform{{Filter: "datum.x * 2 > 1"}})
	if err != nil {
		t.Fatal(err)
	}
	recs := []data.Record{
		{"x": data.Num(1)},
		{"x": data.Str("one")},
		{"y": data.Num(1)},
		{"x": data.Num(0)},
		{"x": data.Num(2)},
	}
	orig := fmt.Sprint(recs)
	out := p.Run(recs, nil)
	if len(out) != 2 {
		t.Errorf("got %d records, want 2", len(out))
	}
	if fmt.Sprint(recs) != orig {
		t.Errorf("Run modified its input")
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("got %d warnings, want 2:\n%s", n, buf.String())
	}
}

func TestNewBadFilter(t *testing.T) {
	if _, err := New([]*spec.Transform{{Filter: "datum.x =="}}); err == nil {
		t.Errorf("want error for malformed filter")
	}
}

func TestTable(t *testing.T) {
	recs := []data.Record{
		{"name": data.Str("a"), "w": data.Num(1.5)},
		{"name": data.Str("b"), "w": data.NullValue},
		{"name": data.Num(3)},
	}
	tab := Table(recs, "name", "w")
	if tab.Len() != 3 {
		t.Fatalf("got %d rows, want 3", tab.Len())
	}
	if diff := cmp.Diff([]string{"a", "b", "3"}, tab.MustColumn("name")); diff != "" {
		t.Errorf("name column (-want +got):\n%s", diff)
	}
	w := tab.MustColumn("w").([]float64)
	if w[0] != 1.5 || !math.IsNaN(w[1]) || !math.IsNaN(w[2]) {
		t.Errorf("w column = %v, want [1.5 NaN NaN]", w)
	}

	var out bytes.Buffer
	table.Fprint(&out, table.GroupBy(tab, "name"))
	if !strings.Contains(out.String(), "-- /a") {
		t.Errorf("unexpected table output:\n%s", out.String())
	}
}
