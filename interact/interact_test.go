// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interact

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/scales"
	"github.com/aclements/mwplot/spec"
)

func init() {
	Warning.SetOutput(io.Discard)
	param.Warning.SetOutput(io.Discard)
}

func controller(t *testing.T, policy ResetOn) (*Controller, *param.Store, *spec.Spec) {
	t.Helper()
	s, err := spec.MatchWeightChart(nil)
	if err != nil {
		t.Fatal(err)
	}
	st, err := param.FromSpec(s)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(s, st, policy)
	if err != nil {
		t.Fatal(err)
	}
	return c, st, s
}

func domain(t *testing.T, c *Controller, view int) [2]float64 {
	t.Helper()
	lo, hi, err := c.Domain(view)
	if err != nil {
		t.Fatal(err)
	}
	return [2]float64{lo, hi}
}

func TestLinkedZoom(t *testing.T) {
	c, st, s := controller(t, DoubleClick)
	var notified int
	if _, err := st.Subscribe("mouse_zoom", func(*param.Param) { notified++ }); err != nil {
		t.Fatal(err)
	}

	if err := c.Zoom(0, 2, -4); err != nil {
		t.Fatal(err)
	}
	want := [2]float64{-4, 2}
	for view := range s.VConcat {
		if got := domain(t, c, view); got != want {
			t.Errorf("view %d domain %v, want %v", view, got, want)
		}
	}
	if notified != 1 {
		t.Errorf("got %d notifications, want 1", notified)
	}

	// The resolved scales of both views follow the selection.
	groups := [][]data.Group{{{}}, nil}
	set, err := scales.Resolve(s, groups, st.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	for i, vs := range set.Views {
		if lo, hi := vs.X.Domain(); lo != -4 || hi != 2 {
			t.Errorf("view %d scale domain [%v,%v], want [-4,2]", i, lo, hi)
		}
	}

	// Clearing the selection in the other view restores both.
	if err := c.Reset(1); err != nil {
		t.Fatal(err)
	}
	want = [2]float64{-10, 10}
	for view := range s.VConcat {
		if got := domain(t, c, view); got != want {
			t.Errorf("after reset: view %d domain %v, want %v", view, got, want)
		}
	}
	if iv, _ := st.GetInterval("mouse_zoom"); iv != nil {
		t.Errorf("after reset: interval %v, want none", iv)
	}
}

func TestPanWheel(t *testing.T) {
	c, _, _ := controller(t, DoubleClick)
	if err := c.Pan(1, 5); err != nil {
		t.Fatal(err)
	}
	if got, want := domain(t, c, 0), [2]float64{-5, 15}; got != want {
		t.Errorf("after pan: domain %v, want %v", got, want)
	}
	if err := c.Wheel(0, 5, 0.5); err != nil {
		t.Fatal(err)
	}
	if got, want := domain(t, c, 1), [2]float64{0, 10}; got != want {
		t.Errorf("after wheel: domain %v, want %v", got, want)
	}
	if err := c.Wheel(0, 0, 0); err == nil {
		t.Errorf("zero wheel factor accepted")
	}
}

func TestZoomClamp(t *testing.T) {
	c, _, _ := controller(t, DoubleClick)
	if err := c.Zoom(0, 1, 1); err != nil {
		t.Fatal(err)
	}
	d := domain(t, c, 0)
	if w := d[1] - d[0]; math.Abs(w-20*MinZoomWidth) > 1e-12 || math.Abs((d[0]+d[1])/2-1) > 1e-12 {
		t.Errorf("degenerate zoom gave %v, want width %v about 1", d, 20*MinZoomWidth)
	}
	if err := c.Zoom(0, -1e9, 1e9); err != nil {
		t.Fatal(err)
	}
	d = domain(t, c, 0)
	if w := d[1] - d[0]; w != 20*MaxZoomWidth {
		t.Errorf("huge zoom gave width %v, want %v", w, 20*MaxZoomWidth)
	}
	if err := c.Zoom(0, math.NaN(), 1); err == nil {
		t.Errorf("NaN zoom accepted")
	}
}

func TestDrag(t *testing.T) {
	c, st, _ := controller(t, DoubleClick)
	var seen []float64
	st.Subscribe("iteration_number", func(p *param.Param) {
		x, _ := p.Value().Float()
		seen = append(seen, x)
	})
	if err := c.Drag(0, 1, 2, 2, 3); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, seen); diff != "" {
		t.Errorf("slider updates (-want +got):\n%s", diff)
	}

	if err := c.Slide(15); err != nil {
		t.Fatal(err)
	}
	if v, _ := st.Get("iteration_number"); v != data.Num(10) {
		t.Errorf("slide to 15 gave %v, want 10", v)
	}
}

func TestResetPolicy(t *testing.T) {
	for _, test := range []struct {
		policy ResetOn
		want   [2]float64
	}{
		{DoubleClick, [2]float64{-10, 10}},
		{ExplicitClear, [2]float64{-1, 1}},
	} {
		c, _, _ := controller(t, test.policy)
		if err := c.Zoom(0, -1, 1); err != nil {
			t.Fatal(err)
		}
		if err := c.DoubleClick(1); err != nil {
			t.Fatal(err)
		}
		if got := domain(t, c, 0); got != test.want {
			t.Errorf("%v: after double click: domain %v, want %v", test.policy, got, test.want)
		}
	}

	if p, err := ParseResetOn(ExplicitClear.String()); err != nil || p != ExplicitClear {
		t.Errorf("ParseResetOn round trip = %v, %v", p, err)
	}
	if _, err := ParseResetOn("hover"); err == nil {
		t.Errorf("unknown policy accepted")
	}
}

func TestBadView(t *testing.T) {
	c, _, _ := controller(t, DoubleClick)
	if err := c.Zoom(2, 0, 1); !errors.Is(err, ErrNoView) {
		t.Errorf("zooming view 2: got %v, want ErrNoView", err)
	}
	if c.Zoomable(2) || !c.Zoomable(1) {
		t.Errorf("Zoomable gives wrong answers")
	}
}
