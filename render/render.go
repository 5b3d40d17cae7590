// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render turns a chart layout into marks and draws them as
// SVG.
//
// Build computes a Scene, which holds every bar, rule and text of a
// chart in chart coordinates. A Scene is independent of the output
// format. WriteSVG draws a Scene.
package render

import (
	"log"
	"math"
	"os"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/expr"
	"github.com/aclements/mwplot/facet"
	"github.com/aclements/mwplot/internal/theme"
	"github.com/aclements/mwplot/scales"
	"github.com/aclements/mwplot/spec"
)

// Warning is the logger for recoverable rendering problems, such as
// an axis condition that fails to evaluate.
var Warning = log.New(os.Stderr, "[render] ", log.Lshortfile)

// DefaultFill is the bar color of views without a color channel.
const DefaultFill = "#4c78a8"

// legendStops is the number of stops used to approximate the legend
// gradient. SVG interpolates stops in sRGB.
const legendStops = 16

// Scene is the set of marks making up a chart.
type Scene struct {
	Width, Height float64
	Theme         *theme.Theme

	Panels []*Panel
	// Rules are axis lines and ticks.
	Rules []Rule
	Texts []Text

	// Legend is nil if the chart has no color legend.
	Legend *Legend
}

// Panel holds the marks of one facet panel.
type Panel struct {
	View int
	Key  string
	Plot facet.Box
	// Clip is set if bars are clipped to Plot.
	Clip bool

	Grid []Rule
	Bars []*Bar
}

// Bar is one bar mark.
type Bar struct {
	Datum data.Record
	// Value is the x value of the bar, or NaN for null.
	Value float64

	X, Y, W, H float64
	Fill       colorful.Color
	// NoValue is set if the bar's x or color value is null. Such
	// bars are drawn hatched.
	NoValue bool

	// Tooltip lists the tooltip fields as "title: value".
	Tooltip []string
}

// Rule is a line segment.
type Rule struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	Width          float64
	// Dash is the dash pattern, or nil for a solid line.
	Dash []float64
}

// Text anchors.
const (
	Start  = "start"
	Middle = "middle"
	End    = "end"
)

// Text is a single line of text. Y is the baseline.
type Text struct {
	X, Y   float64
	S      string
	Size   float64
	Anchor string
	Bold   bool
	// Rotate rotates the text by this many degrees about (X, Y).
	Rotate float64
}

// Legend is a vertical color gradient. The first stop is at the top.
type Legend struct {
	Box   facet.Box
	Stops []Stop
}

// Stop is a gradient color stop at Offset in [0, 1].
type Stop struct {
	Offset float64
	Color  colorful.Color
}

// Build computes the marks of l. If th is nil, it uses l's theme.
func Build(l *facet.Layout, th *theme.Theme) *Scene {
	if th == nil {
		th = l.Theme
	}
	if th == nil {
		th = &theme.Default
	}
	sc := &Scene{Width: l.Width, Height: l.Height, Theme: th}

	y := l.TitleBox.Y
	if l.Title != "" {
		y += th.TitleFontSize
		sc.text(Text{X: l.TitleBox.X, Y: y, S: l.Title, Size: th.TitleFontSize, Bold: true})
		y += th.LabelPadding
	}
	if l.Subtitle != "" {
		y += th.FontSize
		sc.text(Text{X: l.TitleBox.X, Y: y, S: l.Subtitle, Size: th.FontSize})
	}

	for _, v := range l.Views {
		sc.view(v, th)
	}
	if l.Legend != nil {
		sc.legend(l.Legend, th)
	}
	return sc
}

func (sc *Scene) text(t Text) {
	if t.Anchor == "" {
		t.Anchor = Start
	}
	sc.Texts = append(sc.Texts, t)
}

// middle returns the baseline that vertically centers text of the
// given size on y.
func middle(y, size float64) float64 {
	return y + 0.35*size
}

func (sc *Scene) view(v *facet.View, th *theme.Theme) {
	if len(v.Panels) == 0 {
		return
	}
	enc := &v.Spec.Encoding
	major, _ := v.X.Ticks(v.XTicks)
	grid := gridRules(v, major, th)

	for _, p := range v.Panels {
		sp := &Panel{View: v.Index, Key: p.Key, Plot: p.Plot, Clip: v.Spec.Mark.Clip}
		for _, g := range grid {
			g.Y1, g.Y2 = p.Plot.Y, p.Plot.Y+p.Plot.H
			sp.Grid = append(sp.Grid, g)
		}
		for _, rec := range p.Records {
			sp.Bars = append(sp.Bars, bar(v, p, rec, th))
		}
		sc.Panels = append(sc.Panels, sp)

		if v.Spec.Panelled() {
			sc.header(v.Spec.Encoding.Row, p, th)
		}
		if enc.Y != nil {
			sc.yAxis(v, p, th)
		}
	}
	if enc.Y != nil && v.SharedYAxis && v.YTitle != "" {
		// One title centered on the stacked panels.
		p := v.Panels[0]
		sc.yTitle(v.YTitle, p.Labels.X+th.FontSize, v.Plot.Y+v.Plot.H/2, th)
	}
	sc.xAxis(v, major, th)
}

// gridRules returns the vertical gridlines of v at ticks, styled by
// the x axis's conditional grid styles. The rules' Y coordinates are
// left for the caller.
func gridRules(v *facet.View, ticks []float64, th *theme.Theme) []Rule {
	ax := v.Spec.Encoding.X.Axis
	if ax != nil && ax.Grid != nil && !*ax.Grid {
		return nil
	}
	lo, hi := v.X.Domain()
	var rules []Rule
	for _, tick := range ticks {
		if tick < lo || tick > hi {
			continue
		}
		x := v.X.Map(tick)
		r := Rule{X1: x, X2: x, Stroke: th.GridColor, Width: th.GridWidth}
		if ax != nil {
			env := expr.Env{Datum: data.Record{
				"value": data.Num(tick),
				"label": data.Str(tickLabel(tick)),
			}}
			if c, ok := evalCond(ax.GridColor, env).(string); ok {
				r.Stroke = c
			}
			if w, ok := number(evalCond(ax.GridWidth, env)); ok {
				r.Width = w
			}
			r.Dash = dash(evalCond(ax.GridDash, env))
		}
		rules = append(rules, r)
	}
	return rules
}

// evalCond returns the value of cv in env, or nil if cv is nil. A
// condition that fails to evaluate is false.
func evalCond(cv *spec.CondValue, env expr.Env) interface{} {
	if cv == nil {
		return nil
	}
	if c := cv.Condition; c != nil && c.Pred != nil {
		ok, err := expr.Test(c.Pred, env)
		if err != nil {
			Warning.Print(err)
		} else if ok {
			return c.Value
		}
	}
	return cv.Value
}

// number converts a decoded JSON or YAML number to a float64.
func number(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// dash converts a decoded dash value, which is a number or a list of
// numbers, to a dash pattern.
func dash(v interface{}) []float64 {
	if x, ok := number(v); ok {
		return []float64{x}
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []float64
	for _, e := range list {
		if x, ok := number(e); ok {
			out = append(out, x)
		}
	}
	return out
}

func tickLabel(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// bar returns the bar mark of rec in panel p of v.
func bar(v *facet.View, p *facet.Panel, rec data.Record, th *theme.Theme) *Bar {
	enc := &v.Spec.Encoding
	b := &Bar{Datum: rec}

	pos, _ := p.Y.Map(scales.Key(rec, enc.Y))
	bw := p.Y.Bandwidth()
	b.H = bw
	if h := v.Spec.Mark.Height; h > 0 {
		b.H = h
	}
	b.Y = pos + (bw-b.H)/2

	x0 := v.X.Map(0)
	b.Value = numberField(rec, enc.X.Field)
	if math.IsNaN(b.Value) {
		// Draw a square marker at zero.
		b.NoValue = true
		b.X, b.W = x0-b.H/2, b.H
	} else {
		x1 := v.X.Map(b.Value)
		b.X, b.W = math.Min(x0, x1), math.Abs(x1-x0)
	}

	b.Fill, _ = colorful.Hex(DefaultFill)
	if v.Color != nil {
		c := numberField(rec, enc.Color.Field)
		b.Fill = v.Color.Map(c)
		if math.IsNaN(c) {
			b.NoValue = true
		}
	}
	if b.NoValue {
		b.Fill = scales.NoValue
	}

	for i := range enc.Tooltip {
		f := &enc.Tooltip[i]
		title := f.Title
		if title == "" {
			title = f.Field
		}
		b.Tooltip = append(b.Tooltip, title+": "+formatValue(rec[f.Field], f.Format))
	}
	return b
}

// numberField returns field of rec as a number. Missing fields are
// null, and null is NaN.
func numberField(rec data.Record, field string) float64 {
	if _, ok := rec[field]; !ok {
		Warning.Print(&data.DataShapeError{Field: field, Record: rec})
		return math.NaN()
	}
	return rec.Number(field)
}

// header adds the row header of p.
func (sc *Scene) header(row *spec.FieldDef, p *facet.Panel, th *theme.Theme) {
	box := p.Header
	t := Text{Y: middle(box.Y+box.H/2, th.FontSize), S: p.Key, Size: th.FontSize}
	align := "right"
	if h := row.Header; h != nil {
		if h.LabelAlign != "" {
			align = h.LabelAlign
		}
		t.Rotate = h.LabelAngle
		switch h.LabelAnchor {
		case "start":
			t.Y = box.Y + th.FontSize
		case "end":
			t.Y = box.Y + box.H - th.LabelPadding
		}
	}
	switch align {
	case "left":
		t.X, t.Anchor = box.X+th.LabelPadding, Start
	case "center":
		t.X, t.Anchor = box.X+box.W/2, Middle
	default:
		t.X, t.Anchor = box.X+box.W-th.LabelPadding, End
	}
	sc.text(t)
}

// yAxis adds the band labels and ticks of p, and its title unless
// the panels of v share one.
func (sc *Scene) yAxis(v *facet.View, p *facet.Panel, th *theme.Theme) {
	f := v.Spec.Encoding.Y
	limit := th.LabelLimit
	if f.Axis != nil && f.Axis.LabelLimit > 0 {
		limit = f.Axis.LabelLimit
	}
	x := p.Plot.X
	sc.Rules = append(sc.Rules, Rule{X1: x, Y1: p.Plot.Y, X2: x, Y2: p.Plot.Y + p.Plot.H, Stroke: th.AxisColor, Width: 1})
	for _, cat := range p.Y.Domain() {
		y, _ := p.Y.Center(cat)
		sc.Rules = append(sc.Rules, Rule{X1: x - th.TickSize, Y1: y, X2: x, Y2: y, Stroke: th.AxisColor, Width: 1})
		sc.text(Text{
			X:      x - th.TickSize - th.LabelPadding,
			Y:      middle(y, th.FontSize),
			S:      theme.Truncate(cat, th.FontSize, limit),
			Size:   th.FontSize,
			Anchor: End,
		})
	}
	if v.YTitle != "" && !v.SharedYAxis {
		sc.yTitle(v.YTitle, p.Labels.X+th.FontSize, p.Plot.Y+p.Plot.H/2, th)
	}
}

func (sc *Scene) yTitle(s string, x, y float64, th *theme.Theme) {
	sc.text(Text{X: x, Y: y, S: s, Size: th.FontSize, Anchor: Middle, Bold: true, Rotate: -90})
}

// xAxis adds the x axis of v below its last panel.
func (sc *Scene) xAxis(v *facet.View, ticks []float64, th *theme.Theme) {
	box := v.XAxis
	y := box.Y
	sc.Rules = append(sc.Rules, Rule{X1: v.Plot.X, Y1: y, X2: v.Plot.X + v.Plot.W, Y2: y, Stroke: th.AxisColor, Width: 1})
	lo, hi := v.X.Domain()
	for _, tick := range ticks {
		if tick < lo || tick > hi {
			continue
		}
		x := v.X.Map(tick)
		sc.Rules = append(sc.Rules, Rule{X1: x, Y1: y, X2: x, Y2: y + th.TickSize, Stroke: th.AxisColor, Width: 1})
		sc.text(Text{X: x, Y: y + th.TickSize + th.LabelPadding + th.FontSize, S: tickLabel(tick), Size: th.FontSize, Anchor: Middle})
	}
	if v.XTitle != "" {
		sc.text(Text{X: v.Plot.X + v.Plot.W/2, Y: box.Y + box.H, S: v.XTitle, Size: th.FontSize, Anchor: Middle, Bold: true})
	}
}

// legend adds the color legend lg.
func (sc *Scene) legend(lg *facet.Legend, th *theme.Theme) {
	box := lg.Gradient
	out := &Legend{Box: box}
	pal := lg.Color.Palette()
	for i := 0; i < legendStops; i++ {
		t := float64(i) / (legendStops - 1)
		c, _ := colorful.MakeColor(pal.Map(t))
		out.Stops = append(out.Stops, Stop{Offset: t, Color: c})
	}
	sc.Legend = out

	sc.text(Text{X: box.X, Y: box.Y - th.LabelPadding, S: lg.Title, Size: th.FontSize, Bold: true})
	stops := lg.Color.Stops
	lo, hi := stops[0], stops[len(stops)-1]
	for i, label := range lg.Labels() {
		y := box.Y + (stops[i]-lo)/(hi-lo)*box.H
		sc.text(Text{X: box.X + box.W + th.LabelPadding, Y: middle(y, th.FontSize), S: label, Size: th.FontSize})
	}
}

// Bars returns the bars of all panels of view v, in panel order.
func (sc *Scene) Bars(v int) []*Bar {
	var out []*Bar
	for _, p := range sc.Panels {
		if p.View == v {
			out = append(out, p.Bars...)
		}
	}
	return out
}
