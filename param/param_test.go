// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package param

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/spec"
)

func init() {
	Warning.SetOutput(io.Discard)
}

func newSlider(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	if _, err := s.DeclareRange("iteration_number", 0, 0, 10, 1); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRangeClamp(t *testing.T) {
	var buf bytes.Buffer
	Warning = log.New(&buf, "", 0)
	defer func() { Warning = log.New(io.Discard, "", 0) }()

	s := newSlider(t)
	for _, test := range []struct {
		in, want float64
		warn     bool
	}{
		{3, 3, false},
		{15, 10, true},
		{-2, 0, true},
		{4.4, 4, false},
		{4.6, 5, false},
		{10, 10, false},
	} {
		buf.Reset()
		if err := s.Set("iteration_number", test.in); err != nil {
			t.Fatalf("Set(%v): %v", test.in, err)
		}
		got, _ := s.Get("iteration_number")
		if x, _ := got.Float(); x != test.want {
			t.Errorf("Set(%v): got %v, want %v", test.in, x, test.want)
		}
		if warned := strings.Contains(buf.String(), "out of range"); warned != test.warn {
			t.Errorf("Set(%v): warning %q, want warning %v", test.in, buf.String(), test.warn)
		}
	}
}

func TestRangeStepFromMin(t *testing.T) {
	s := NewStore()
	if _, err := s.DeclareRange("r", 1, 1, 8, 3); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct{ in, want float64 }{
		{2, 1}, {3, 4}, {6, 7}, {8, 7}, {100, 7},
	} {
		s.Set("r", test.in)
		if got, _ := s.Get("r"); !got.Identical(data.Num(test.want)) {
			t.Errorf("Set(%v): got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestSubscribe(t *testing.T) {
	s := newSlider(t)
	var calls []string
	cancel1, err := s.Subscribe("iteration_number", func(p *Param) {
		calls = append(calls, "a:"+p.Value().String())
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Subscribe("iteration_number", func(p *Param) {
		calls = append(calls, "b:"+p.Value().String())
	})

	s.Set("iteration_number", 2)
	s.Set("iteration_number", 2) // Unchanged; no notification.
	s.Set("iteration_number", 2.2)
	cancel1()
	s.Set("iteration_number", data.Num(3))

	want := "a:2 b:2 b:3"
	if got := strings.Join(calls, " "); got != want {
		t.Errorf("got notifications %q, want %q", got, want)
	}

	if _, err := s.Subscribe("nope", func(*Param) {}); !errors.Is(err, ErrUnknown) {
		t.Errorf("Subscribe(nope): got %v, want ErrUnknown", err)
	}
}

func TestSetErrors(t *testing.T) {
	s := newSlider(t)
	s.DeclareInterval("zoom")
	for _, test := range []struct {
		name string
		v    interface{}
		want error
	}{
		{"nope", 1, ErrUnknown},
		{"iteration_number", "three", ErrWrongKind},
		{"iteration_number", data.Str("3"), ErrWrongKind},
		{"zoom", 3.0, ErrWrongKind},
		{"zoom", Interval{1, 1}, ErrBadValue},
	} {
		if err := s.Set(test.name, test.v); !errors.Is(err, test.want) {
			t.Errorf("Set(%s, %v): got %v, want %v", test.name, test.v, err, test.want)
		}
	}
}

func TestIntervalShared(t *testing.T) {
	s := NewStore()
	a, err := s.DeclareInterval("mouse_zoom")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.DeclareInterval("mouse_zoom")
	if err != nil {
		t.Fatal(err)
	}
	if a != b || s.Shared("mouse_zoom") != a {
		t.Fatalf("interval params with the same name are not shared")
	}

	n := 0
	s.Subscribe("mouse_zoom", func(*Param) { n++ })
	if err := s.SetParam(a, Interval{5, -5}); err != nil {
		t.Fatal(err)
	}
	if got := b.Interval(); got == nil || *got != (Interval{-5, 5}) {
		t.Errorf("got %v, want [-5, 5]", got)
	}
	s.SetParam(b, &Interval{-5, 5})
	s.SetParam(b, nil)
	s.SetParam(a, nil)
	if n != 2 {
		t.Errorf("got %d notifications, want 2", n)
	}
	if iv, ok := s.GetInterval("mouse_zoom"); !ok || iv != nil {
		t.Errorf("GetInterval after clear = %v, %v; want nil, true", iv, ok)
	}

	if _, err := s.DeclareRange("mouse_zoom", 0, 0, 1, 0); err == nil {
		t.Errorf("redeclaring an interval as a range should fail")
	}
}

func TestSnapshot(t *testing.T) {
	s := newSlider(t)
	z, _ := s.DeclareInterval("zoom")
	s.SetParam(z, Interval{-1, 1})
	snap := s.Snapshot()
	s.Set("iteration_number", 7)
	s.SetParam(z, nil)

	if v, ok := snap.Param("iteration_number"); !ok || !v.Identical(data.Num(0)) {
		t.Errorf("snapshot changed after Set: %v", v)
	}
	if iv := snap.Interval("zoom"); iv == nil || *iv != (Interval{-1, 1}) {
		t.Errorf("snapshot interval = %v, want [-1, 1]", iv)
	}
	if snap.Equal(s.Snapshot()) {
		t.Errorf("snapshots of different states compare equal")
	}
	if !s.Snapshot().Equal(s.Snapshot()) {
		t.Errorf("snapshots of one state compare unequal")
	}
}

func TestFromSpec(t *testing.T) {
	sp, err := spec.MatchWeightChart(nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := FromSpec(sp)
	if err != nil {
		t.Fatal(err)
	}
	p := s.Shared("iteration_number")
	if p == nil || p.Kind() != Range {
		t.Fatalf("iteration_number = %+v, want a range parameter", p)
	}
	if min, max, step := p.Bounds(); min != 0 || max != 10 || step != 1 {
		t.Errorf("bounds %v %v %v, want 0 10 1", min, max, step)
	}
	z := s.Shared("mouse_zoom")
	if z == nil || z.Kind() != IntervalKind || z.Interval() != nil {
		t.Errorf("mouse_zoom = %+v, want an empty interval parameter", z)
	}
	if n := len(s.Params()); n != 2 {
		t.Errorf("got %d params, want 2", n)
	}
}
