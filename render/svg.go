// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ajstarks/svgo"

	"github.com/aclements/mwplot/scales"
)

const (
	hatchID    = "hatch"
	gradientID = "legend-gradient"
)

// errWriter records the first error of w. svg.SVG does not report
// write errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return len(b), nil
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}

// r rounds a chart coordinate to the nearest pixel.
func r(x float64) int {
	return int(math.Floor(x + 0.5))
}

// svgRender tracks state while drawing a Scene.
type svgRender struct {
	canvas *svg.SVG
	nextID int
}

func (sr *svgRender) genid(prefix string) (id, ref string) {
	id = fmt.Sprintf("%s%d", prefix, sr.nextID)
	sr.nextID++
	return id, "url(#" + id + ")"
}

// WriteSVG draws sc to w. Drawing the same Scene always produces the
// same bytes.
func (sc *Scene) WriteSVG(w io.Writer) error {
	th := sc.Theme
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := int(math.Ceil(sc.Width)), int(math.Ceil(sc.Height))
	canvas.Start(width, height,
		fmt.Sprintf(`font-family="%s"`, th.FontFamily),
		fmt.Sprintf(`font-size="%.6gpx"`, th.FontSize))
	sr := &svgRender{canvas: canvas}

	canvas.Def()
	canvas.Pattern(hatchID, 0, 0, 6, 6, "user")
	canvas.Rect(0, 0, 6, 6, "fill:"+scales.NoValue.Hex())
	canvas.Path("M0 6L6 0M-1 1L1 -1M5 7L7 5", "stroke:"+th.HatchColor+";stroke-width:1")
	canvas.PatternEnd()
	if lg := sc.Legend; lg != nil {
		var stops []svg.Offcolor
		for _, s := range lg.Stops {
			stops = append(stops, svg.Offcolor{Offset: uint8(r(s.Offset * 100)), Color: s.Color.Hex(), Opacity: 1})
		}
		canvas.LinearGradient(gradientID, 0, 0, 0, 100, stops)
	}
	canvas.DefEnd()

	canvas.Rect(0, 0, width, height, "fill:"+th.Background)

	for _, p := range sc.Panels {
		sr.panel(p)
	}
	for _, rule := range sc.Rules {
		sr.rule(rule)
	}
	if lg := sc.Legend; lg != nil {
		b := lg.Box
		canvas.Rect(r(b.X), r(b.Y), r(b.W), r(b.H), fmt.Sprintf(`fill="url(#%s)"`, gradientID), "stroke:"+th.AxisColor)
	}
	for _, t := range sc.Texts {
		sr.text(t, th.TextColor)
	}

	canvas.End()
	return ew.err
}

func (sr *svgRender) panel(p *Panel) {
	canvas := sr.canvas
	for _, g := range p.Grid {
		sr.rule(g)
	}
	if len(p.Bars) == 0 {
		return
	}

	if p.Clip {
		clipID, clipRef := sr.genid("clip")
		canvas.ClipPath(`id="` + clipID + `"`)
		canvas.Rect(r(p.Plot.X), r(p.Plot.Y), r(p.Plot.X+p.Plot.W)-r(p.Plot.X), r(p.Plot.Y+p.Plot.H)-r(p.Plot.Y))
		canvas.ClipEnd()
		canvas.Group(`clip-path="` + clipRef + `"`)
		defer canvas.Gend()
	}
	for _, b := range p.Bars {
		x, y := r(b.X), r(b.Y)
		w, h := r(b.X+b.W)-x, r(b.Y+b.H)-y
		fill := "fill:" + b.Fill.Hex()
		if b.NoValue {
			fill = fmt.Sprintf("fill:url(#%s)", hatchID)
		}
		if len(b.Tooltip) == 0 {
			canvas.Rect(x, y, w, h, fill)
			continue
		}
		canvas.Group()
		canvas.Title(strings.Join(b.Tooltip, "\n"))
		canvas.Rect(x, y, w, h, fill)
		canvas.Gend()
	}
}

func (sr *svgRender) rule(l Rule) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%.6g", l.Stroke, l.Width)
	if len(l.Dash) > 0 {
		ds := make([]string, len(l.Dash))
		for i, d := range l.Dash {
			ds[i] = fmt.Sprintf("%.6g", d)
		}
		style += ";stroke-dasharray:" + strings.Join(ds, ",")
	}
	sr.canvas.Line(r(l.X1), r(l.Y1), r(l.X2), r(l.Y2), style)
}

func (sr *svgRender) text(t Text, color string) {
	attrs := []string{
		fmt.Sprintf(`text-anchor="%s"`, t.Anchor),
		fmt.Sprintf(`font-size="%.6gpx"`, t.Size),
		fmt.Sprintf(`fill="%s"`, color),
	}
	if t.Bold {
		attrs = append(attrs, `font-weight="bold"`)
	}
	if t.Rotate != 0 {
		attrs = append(attrs, fmt.Sprintf(`transform="rotate(%.6g %d %d)"`, t.Rotate, r(t.X), r(t.Y)))
	}
	sr.canvas.Text(r(t.X), r(t.Y), t.S, attrs...)
}
