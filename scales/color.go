// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/aclements/mwplot/spec"
)

// Interpolation spaces.
const (
	RGB = "rgb"
	Lab = "lab"
	HCL = "hcl"
)

// DefaultInterpolate is the interpolation space of color scales that
// do not declare one.
const DefaultInterpolate = HCL

// DefaultRange is the color range of color scales that do not declare
// one.
var DefaultRange = []string{"#deebf7", "#08519c"}

// NoValue is the color of null and missing values.
var NoValue = colorful.Color{R: 0.88, G: 0.88, B: 0.88}

// Gradient is a Continuous palette that interpolates between a
// sequence of colors in a given color space.
type Gradient struct {
	Colors []colorful.Color

	// Stops is an optional ascending sequence of stop positions in
	// [0, 1], one per color. If nil, colors are evenly spaced.
	Stops []float64

	// Space is RGB, Lab or HCL.
	Space string
}

var _ palette.Continuous = Gradient{}

// Map returns the color at position x in [0, 1]. Positions outside
// [0, 1] clamp. A position on a stop returns exactly that stop's
// color.
func (g Gradient) Map(x float64) color.Color {
	return g.At(x)
}

// At is Map with a concrete result type.
func (g Gradient) At(x float64) colorful.Color {
	n := len(g.Colors)
	switch {
	case n == 0:
		return NoValue
	case n == 1 || math.IsNaN(x):
		return g.Colors[0]
	}
	stop := func(i int) float64 {
		if g.Stops == nil {
			return float64(i) / float64(n-1)
		}
		return g.Stops[i]
	}
	if x <= stop(0) {
		return g.Colors[0]
	}
	if x >= stop(n-1) {
		return g.Colors[n-1]
	}
	// Find the segment [stop(i), stop(i+1)) containing x.
	i := sort.Search(n, func(i int) bool { return stop(i) > x }) - 1
	lo, hi := stop(i), stop(i+1)
	if x == lo {
		return g.Colors[i]
	}
	t := (x - lo) / (hi - lo)
	a, b := g.Colors[i], g.Colors[i+1]
	var c colorful.Color
	switch g.Space {
	case RGB:
		c = a.BlendRgb(b, t)
	case HCL:
		c = a.BlendHcl(b, t)
	default:
		c = a.BlendLab(b, t)
	}
	return c.Clamped()
}

// Color is a continuous color scale from a numeric domain with two or
// more stops to a gradient.
type Color struct {
	// Stops is the ascending domain. The first and last stops
	// bound the domain.
	Stops []float64

	gradient Gradient
}

// NewColor returns the color scale declared by def. If def gives no
// domain, the domain is [min, max] of the data. It returns an error
// if def's domain has a single stop or a color in def's range cannot
// be parsed.
func NewColor(def *spec.ScaleDef, min, max float64) (*Color, error) {
	var domain []float64
	rng := DefaultRange
	space := DefaultInterpolate
	if def != nil {
		domain = def.Domain.Nums
		if def.Range != nil {
			rng = def.Range
		}
		if def.Interpolate != "" {
			space = def.Interpolate
		}
	}
	if len(domain) == 0 {
		if math.IsNaN(min) || math.IsNaN(max) {
			min, max = 0, 1
		}
		if min == max {
			min, max = min-1, max+1
		}
		domain = []float64{min, max}
	}
	if len(domain) < 2 {
		return nil, fmt.Errorf("color domain has %d stop, want at least 2", len(domain))
	}
	if len(domain) != len(rng) {
		if def != nil && def.Range != nil {
			return nil, fmt.Errorf("color range has %d colors for %d domain stops", len(rng), len(domain))
		}
		// Spread the default range over the domain's extent.
		domain = []float64{domain[0], domain[len(domain)-1]}
	}

	colors := make([]colorful.Color, len(rng))
	for i, s := range rng {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	lo, hi := domain[0], domain[len(domain)-1]
	stops := make([]float64, len(domain))
	for i, d := range domain {
		stops[i] = (d - lo) / (hi - lo)
	}
	return &Color{
		Stops:    append([]float64(nil), domain...),
		gradient: Gradient{Colors: colors, Stops: stops, Space: space},
	}, nil
}

// Map returns the color of x. Values outside the domain clamp to the
// end colors. NaN, which stands for null, maps to NoValue.
func (c *Color) Map(x float64) colorful.Color {
	if math.IsNaN(x) {
		return NoValue
	}
	lo, hi := c.Stops[0], c.Stops[len(c.Stops)-1]
	return c.gradient.At((x - lo) / (hi - lo))
}

// Palette returns c's gradient over [0, 1].
func (c *Color) Palette() palette.Continuous {
	return c.gradient
}

// ParseColor parses a CSS color: a hex triplet such as "#bbb" or
// "#bbbbbb", or a basic color keyword.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := cssNames[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7) {
		return colorful.Color{}, fmt.Errorf("unknown color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return c, nil
}

// cssNames are the CSS basic color keywords plus a few common
// extended ones.
var cssNames = map[string]string{
	"black":     "#000000",
	"silver":    "#c0c0c0",
	"gray":      "#808080",
	"grey":      "#808080",
	"white":     "#ffffff",
	"maroon":    "#800000",
	"red":       "#ff0000",
	"purple":    "#800080",
	"fuchsia":   "#ff00ff",
	"green":     "#008000",
	"lime":      "#00ff00",
	"olive":     "#808000",
	"yellow":    "#ffff00",
	"navy":      "#000080",
	"blue":      "#0000ff",
	"teal":      "#008080",
	"aqua":      "#00ffff",
	"orange":    "#ffa500",
	"steelblue": "#4682b4",
	"lightgray": "#d3d3d3",
	"lightgrey": "#d3d3d3",
	"darkgray":  "#a9a9a9",
	"darkgrey":  "#a9a9a9",
}
