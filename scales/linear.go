// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scales maps data values to positions and colors.
//
// A Linear scale maps a quantitative channel to pixels, a Band scale
// maps a discrete channel to evenly spaced bands and a Color scale
// maps a quantitative channel to a gradient. Resolve builds the scales
// of every view of a chart for one parameter snapshot, sharing or
// splitting them across views and facets as the chart's resolution
// requires.
package scales

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"

	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/spec"
)

// Linear is a continuous scale from a numeric domain to a pixel
// range.
//
// The domain is, in order of precedence, the pinned interval, the
// declared domain, the extent of the included data, or [-1, 1].
type Linear struct {
	declared         scale.Linear
	dataMin, dataMax float64
	pin              *param.Interval

	r0, r1 float64
}

// NewLinear returns a linear scale with the domain declared by def,
// which may be nil. The range is initially [0, 1].
func NewLinear(def *spec.ScaleDef) *Linear {
	l := &Linear{
		declared: scale.Linear{Min: math.NaN(), Max: math.NaN()},
		dataMin:  math.NaN(),
		dataMax:  math.NaN(),
		r1:       1,
	}
	if def != nil && len(def.Domain.Nums) >= 2 {
		n := def.Domain.Nums
		l.declared.Min, l.declared.Max = n[0], n[len(n)-1]
	}
	return l
}

func (l *Linear) String() string {
	lo, hi := l.Domain()
	return fmt.Sprintf("linear [%g,%g] => [%g,%g]", lo, hi, l.r0, l.r1)
}

// Include expands the data extent of l to include xs. NaN and
// infinite values are ignored.
func (l *Linear) Include(xs []float64) {
	finite := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if len(finite) == 0 {
		return
	}
	min, max := stats.Bounds(finite)
	if math.IsNaN(l.dataMin) || min < l.dataMin {
		l.dataMin = min
	}
	if math.IsNaN(l.dataMax) || max > l.dataMax {
		l.dataMax = max
	}
}

// Pin overrides the domain of l with iv. A nil iv removes the
// override.
func (l *Linear) Pin(iv *param.Interval) {
	if iv == nil {
		l.pin = nil
		return
	}
	c := *iv
	l.pin = &c
}

// Pinned reports whether l's domain is overridden by an interval.
func (l *Linear) Pinned() bool {
	return l.pin != nil
}

// Base returns the domain of l ignoring any pin. This is the domain
// a cleared zoom reverts to.
func (l *Linear) Base() (lo, hi float64) {
	ls := l.base()
	return ls.Min, ls.Max
}

func (l *Linear) base() scale.Linear {
	ls := l.declared
	if math.IsNaN(ls.Min) {
		ls.Min = l.dataMin
	}
	if math.IsNaN(ls.Max) {
		ls.Max = l.dataMax
	}
	if math.IsNaN(ls.Min) {
		// Only possible if no data was included.
		ls.Min, ls.Max = -1, 1
	}
	if ls.Min == ls.Max {
		ls.Min, ls.Max = ls.Min-1, ls.Max+1
	}
	return ls
}

func (l *Linear) get() scale.Linear {
	if l.pin != nil {
		return scale.Linear{Min: l.pin.Lo, Max: l.pin.Hi}
	}
	return l.base()
}

// Domain returns the current domain of l.
func (l *Linear) Domain() (lo, hi float64) {
	ls := l.get()
	return ls.Min, ls.Max
}

// SetRange sets the pixel range of l.
func (l *Linear) SetRange(r0, r1 float64) {
	l.r0, l.r1 = r0, r1
}

// Range returns the pixel range of l.
func (l *Linear) Range() (r0, r1 float64) {
	return l.r0, l.r1
}

// Map maps x to a pixel position. Values outside the domain map
// outside the range.
func (l *Linear) Map(x float64) float64 {
	ls := l.get()
	return l.r0 + ls.Map(x)*(l.r1-l.r0)
}

// Unmap maps a pixel position back to the domain.
func (l *Linear) Unmap(px float64) float64 {
	ls := l.get()
	if l.r0 == l.r1 {
		return ls.Min
	}
	return ls.Min + (px-l.r0)/(l.r1-l.r0)*(ls.Max-ls.Min)
}

// Ticks returns at most max major ticks inside the domain, and the
// minor ticks between them.
func (l *Linear) Ticks(max int) (major, minor []float64) {
	if max < 2 {
		max = 2
	}
	ls := l.get()
	return ls.Ticks(scale.TickOptions{Max: max})
}

// Clone returns a copy of l.
func (l *Linear) Clone() *Linear {
	l2 := *l
	l2.Pin(l.pin)
	return &l2
}
