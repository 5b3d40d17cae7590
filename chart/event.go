// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"strconv"

	"github.com/aclements/mwplot/interact"
)

// An Event is a user gesture posted to a Session.
type Event interface {
	apply(c *interact.Controller) error
	String() string
}

// Slide moves the slider to Value.
type Slide struct {
	Value float64
}

// Zoom sets the x domain of View to [Lo, Hi].
type Zoom struct {
	View   int
	Lo, Hi float64
}

// Pan shifts the x domain of View by Delta data units.
type Pan struct {
	View  int
	Delta float64
}

// Wheel scales the x domain of View by Factor about Anchor.
type Wheel struct {
	View           int
	Anchor, Factor float64
}

// Reset clears the zoom of View.
type Reset struct {
	View int
}

// DoubleClick is a double click in View. Whether it resets the zoom
// depends on the session's reset policy.
type DoubleClick struct {
	View int
}

// Redraw forces a new frame even if no parameter changed.
type Redraw struct{}

func (e Slide) apply(c *interact.Controller) error       { return c.Slide(e.Value) }
func (e Zoom) apply(c *interact.Controller) error        { return c.Zoom(e.View, e.Lo, e.Hi) }
func (e Pan) apply(c *interact.Controller) error         { return c.Pan(e.View, e.Delta) }
func (e Wheel) apply(c *interact.Controller) error       { return c.Wheel(e.View, e.Anchor, e.Factor) }
func (e Reset) apply(c *interact.Controller) error       { return c.Reset(e.View) }
func (e DoubleClick) apply(c *interact.Controller) error { return c.DoubleClick(e.View) }
func (Redraw) apply(c *interact.Controller) error        { return nil }

func (e Slide) String() string { return fmt.Sprintf("slide %g", e.Value) }
func (e Zoom) String() string  { return fmt.Sprintf("zoom %d %g %g", e.View, e.Lo, e.Hi) }
func (e Pan) String() string   { return fmt.Sprintf("pan %d %g", e.View, e.Delta) }
func (e Wheel) String() string {
	return fmt.Sprintf("wheel %d %g %g", e.View, e.Anchor, e.Factor)
}
func (e Reset) String() string       { return fmt.Sprintf("reset %d", e.View) }
func (e DoubleClick) String() string { return fmt.Sprintf("dblclick %d", e.View) }
func (Redraw) String() string        { return "redraw" }

// coalesce collapses runs of consecutive Slide events in evs to the
// last of each run.
func coalesce(evs []Event) []Event {
	out := evs[:0:0]
	for _, ev := range evs {
		if _, ok := ev.(Slide); ok && len(out) > 0 {
			if _, ok := out[len(out)-1].(Slide); ok {
				out[len(out)-1] = ev
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// ParseEvent parses an event from its String form split into words,
// such as ["zoom", "0", "-4", "2"].
func ParseEvent(words []string) (Event, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("empty event")
	}
	nums := make([]float64, len(words)-1)
	for i, w := range words[1:] {
		x, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad argument %q", words[0], w)
		}
		nums[i] = x
	}
	view := func() int { return int(nums[0]) }
	want := func(n int) error {
		if len(nums) != n {
			return fmt.Errorf("%s: want %d arguments, got %d", words[0], n, len(nums))
		}
		return nil
	}

	var ev Event
	var err error
	switch words[0] {
	case "slide":
		if err = want(1); err == nil {
			ev = Slide{nums[0]}
		}
	case "zoom":
		if err = want(3); err == nil {
			ev = Zoom{view(), nums[1], nums[2]}
		}
	case "pan":
		if err = want(2); err == nil {
			ev = Pan{view(), nums[1]}
		}
	case "wheel":
		if err = want(3); err == nil {
			ev = Wheel{view(), nums[1], nums[2]}
		}
	case "reset":
		if err = want(1); err == nil {
			ev = Reset{view()}
		}
	case "dblclick":
		if err = want(1); err == nil {
			ev = DoubleClick{view()}
		}
	case "redraw":
		if err = want(0); err == nil {
			ev = Redraw{}
		}
	default:
		err = fmt.Errorf("unknown event %q", words[0])
	}
	return ev, err
}
