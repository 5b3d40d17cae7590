// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interact translates user gestures into parameter updates.
//
// A Controller drives the slider parameter of a chart and the x
// interval selections bound to the scales of its views. Views whose
// selections have the same name share one interval parameter, so
// zooming or panning one view re-scales all of them identically.
package interact

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/spec"
)

// Warning is the logger for clamped gestures.
var Warning = log.New(os.Stderr, "[interact] ", log.Lshortfile)

// ResetOn selects the gesture that clears a zoom.
type ResetOn int

const (
	// DoubleClick clears the zoom on a double click in a view, as
	// well as on an explicit Reset.
	DoubleClick ResetOn = iota
	// ExplicitClear clears the zoom only on an explicit Reset.
	// Double clicks are ignored.
	ExplicitClear
)

func (r ResetOn) String() string {
	switch r {
	case DoubleClick:
		return "dblclick"
	case ExplicitClear:
		return "clear"
	}
	return fmt.Sprintf("ResetOn(%d)", int(r))
}

// ParseResetOn parses the String form of a ResetOn.
func ParseResetOn(s string) (ResetOn, error) {
	switch s {
	case "dblclick":
		return DoubleClick, nil
	case "clear":
		return ExplicitClear, nil
	}
	return 0, fmt.Errorf("unknown reset policy %q", s)
}

var (
	// ErrNoSlider is returned by Slide and Drag for charts without
	// a range-bound parameter.
	ErrNoSlider = errors.New("chart has no slider")
	// ErrNoZoom is returned for zoom gestures on a view without an
	// interval selection bound to its scales.
	ErrNoZoom = errors.New("view is not zoomable")
	// ErrNoView is returned for a view index out of range.
	ErrNoView = errors.New("no such view")
)

// Zoom limits, relative to the width of a view's unzoomed domain.
const (
	MinZoomWidth = 1e-6
	MaxZoomWidth = 1e3
)

// Controller applies gestures to a chart's parameters.
type Controller struct {
	store  *param.Store
	policy ResetOn

	slider *param.Param
	// zoom[i] is view i's scale-bound interval parameter, or nil.
	zoom []*param.Param
	// base[i] is view i's x domain with no active zoom.
	base []param.Interval
}

// New returns a Controller for the parameters of s in store.
func New(s *spec.Spec, store *param.Store, policy ResetOn) (*Controller, error) {
	c := &Controller{store: store, policy: policy}
	if p := s.Slider(); p != nil {
		c.slider = store.Shared(p.Name)
		if c.slider == nil {
			return nil, fmt.Errorf("slider %s is not declared in the store", p.Name)
		}
	}
	for _, v := range s.VConcat {
		var zp *param.Param
		if name := v.ZoomParam(); name != "" {
			zp = store.Shared(name)
			if zp == nil || zp.Kind() != param.IntervalKind {
				return nil, fmt.Errorf("zoom selection %s is not an interval in the store", name)
			}
		}
		c.zoom = append(c.zoom, zp)

		base := param.Interval{Lo: -1, Hi: 1}
		if sc := v.Encoding.X.Scale; sc != nil && len(sc.Domain.Nums) == 2 {
			base = param.Interval{Lo: sc.Domain.Nums[0], Hi: sc.Domain.Nums[1]}
		}
		c.base = append(c.base, base)
	}
	return c, nil
}

// Policy returns c's reset policy.
func (c *Controller) Policy() ResetOn {
	return c.policy
}

// Slider returns the slider parameter, or nil.
func (c *Controller) Slider() *param.Param {
	return c.slider
}

// Slide moves the slider to x. Out of range values are clamped.
func (c *Controller) Slide(x float64) error {
	if c.slider == nil {
		return ErrNoSlider
	}
	return c.store.SetParam(c.slider, x)
}

// Drag moves the slider through xs in order, as during a drag. Each
// value is a separate update, so subscribers see every step the
// slider passes through.
func (c *Controller) Drag(xs ...float64) error {
	for _, x := range xs {
		if err := c.Slide(x); err != nil {
			return err
		}
	}
	return nil
}

// SetBase sets the x domain view shows with no active zoom, such as
// a domain derived from the data.
func (c *Controller) SetBase(view int, lo, hi float64) {
	if view >= 0 && view < len(c.base) && lo < hi {
		c.base[view] = param.Interval{Lo: lo, Hi: hi}
	}
}

// Zoomable reports whether view has a scale-bound selection.
func (c *Controller) Zoomable(view int) bool {
	return view >= 0 && view < len(c.zoom) && c.zoom[view] != nil
}

// Domain returns the current x domain of view.
func (c *Controller) Domain(view int) (lo, hi float64, err error) {
	if view < 0 || view >= len(c.base) {
		return 0, 0, ErrNoView
	}
	if zp := c.zoom[view]; zp != nil {
		if iv := zp.Interval(); iv != nil {
			return iv.Lo, iv.Hi, nil
		}
	}
	b := c.base[view]
	return b.Lo, b.Hi, nil
}

func (c *Controller) param(view int) (*param.Param, error) {
	if view < 0 || view >= len(c.zoom) {
		return nil, ErrNoView
	}
	if c.zoom[view] == nil {
		return nil, fmt.Errorf("view %d: %w", view, ErrNoZoom)
	}
	return c.zoom[view], nil
}

// Zoom sets the x domain of view, and every view linked to it, to
// [lo, hi]. Intervals narrower than MinZoomWidth or wider than
// MaxZoomWidth times the unzoomed width are clamped about their
// center.
func (c *Controller) Zoom(view int, lo, hi float64) error {
	zp, err := c.param(view)
	if err != nil {
		return err
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return fmt.Errorf("view %d: bad zoom [%g, %g]", view, lo, hi)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	bw := c.base[view].Width()
	w := hi - lo
	cw := math.Max(bw*MinZoomWidth, math.Min(w, bw*MaxZoomWidth))
	if cw != w {
		mid := lo + w/2
		Warning.Printf("view %d: zoom [%g, %g] out of range; clamped to width %g", view, lo, hi, cw)
		lo, hi = mid-cw/2, mid+cw/2
	}
	return c.store.SetParam(zp, param.Interval{Lo: lo, Hi: hi})
}

// Pan shifts the x domain of view by delta in data units.
func (c *Controller) Pan(view int, delta float64) error {
	if _, err := c.param(view); err != nil {
		return err
	}
	lo, hi, _ := c.Domain(view)
	return c.Zoom(view, lo+delta, hi+delta)
}

// Wheel scales the x domain of view by factor about anchor, which
// keeps its position. A factor above 1 zooms out.
func (c *Controller) Wheel(view int, anchor, factor float64) error {
	if _, err := c.param(view); err != nil {
		return err
	}
	if !(factor > 0) {
		return fmt.Errorf("view %d: bad wheel factor %g", view, factor)
	}
	lo, hi, _ := c.Domain(view)
	return c.Zoom(view, anchor+(lo-anchor)*factor, anchor+(hi-anchor)*factor)
}

// Reset clears the zoom of view and every view linked to it.
func (c *Controller) Reset(view int) error {
	zp, err := c.param(view)
	if err != nil {
		return err
	}
	return c.store.SetParam(zp, nil)
}

// DoubleClick handles a double click in view. Under the DoubleClick
// policy it resets the zoom; otherwise it does nothing.
func (c *Controller) DoubleClick(view int) error {
	if c.policy != DoubleClick {
		return nil
	}
	return c.Reset(view)
}
