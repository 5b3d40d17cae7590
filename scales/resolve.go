// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"fmt"
	"math"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/spec"
)

// ViewScales are the scales of one view.
type ViewScales struct {
	X *Linear

	// Color is nil if the view has no color channel.
	Color *Color

	// Y holds one band scale per facet, in facet order. Facets share
	// one *Band unless y is resolved independent. A view without a y
	// channel has a single band with the category "".
	Y []*Band
}

// A Set holds the scales of every view of a chart.
type Set struct {
	Views []*ViewScales
}

// Resolve builds the scales of every view of s. groups[i] holds the
// facets of view i after filtering. Zoom intervals are read from snap.
//
// Unless resolved independent, x and color domains are shared by all
// views: a data-derived domain covers the data of every sharing view.
func Resolve(s *spec.Spec, groups [][]data.Group, snap param.Snapshot) (*Set, error) {
	if len(groups) != len(s.VConcat) {
		return nil, fmt.Errorf("have facets for %d views, want %d", len(groups), len(s.VConcat))
	}

	// Shared x and color extents.
	sharedX := NewLinear(nil)
	cmin, cmax := math.NaN(), math.NaN()
	for i, v := range s.VConcat {
		res := s.ResolvedScales(v)
		if res.X != spec.Independent {
			sharedX.Include(values(groups[i], v.Encoding.X.Field))
		}
		if c := v.Encoding.Color; c != nil && res.Color != spec.Independent {
			cmin, cmax = extent(values(groups[i], c.Field), cmin, cmax)
		}
	}

	set := &Set{}
	for i, v := range s.VConcat {
		res := s.ResolvedScales(v)
		e := &v.Encoding
		vs := &ViewScales{}

		vs.X = NewLinear(e.X.Scale)
		if res.X == spec.Independent {
			vs.X.Include(values(groups[i], e.X.Field))
		} else {
			vs.X.dataMin, vs.X.dataMax = sharedX.dataMin, sharedX.dataMax
		}
		if name := v.ZoomParam(); name != "" {
			vs.X.Pin(snap.Interval(name))
		}

		if e.Color != nil {
			lo, hi := cmin, cmax
			if res.Color == spec.Independent {
				lo, hi = extent(values(groups[i], e.Color.Field), math.NaN(), math.NaN())
			}
			c, err := NewColor(e.Color.Scale, lo, hi)
			if err != nil {
				return nil, fmt.Errorf("vconcat[%d].encoding.color: %w", i, err)
			}
			vs.Color = c
		}

		vs.Y = make([]*Band, len(groups[i]))
		switch {
		case e.Y == nil:
			b := NewBand([]string{""})
			for j := range vs.Y {
				vs.Y[j] = b
			}
		case res.Y == spec.Independent:
			for j, g := range groups[i] {
				vs.Y[j] = NewBand(Categories(g.Records, e.Y))
			}
		default:
			var all []data.Record
			for _, g := range groups[i] {
				all = append(all, g.Records...)
			}
			b := NewBand(Categories(all, e.Y))
			for j := range vs.Y {
				vs.Y[j] = b
			}
		}
		set.Views = append(set.Views, vs)
	}
	return set, nil
}

// values returns field of every record in gs, with NaN for null,
// missing or non-numeric values.
func values(gs []data.Group, field string) []float64 {
	var xs []float64
	for _, g := range gs {
		for _, rec := range g.Records {
			x, _ := rec[field].Float()
			xs = append(xs, x)
		}
	}
	return xs
}

func extent(xs []float64, min, max float64) (float64, float64) {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if math.IsNaN(min) || x < min {
			min = x
		}
		if math.IsNaN(max) || x > max {
			max = x
		}
	}
	return min, max
}
