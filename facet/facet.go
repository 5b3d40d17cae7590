// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package facet splits views into row panels and lays out a chart.
//
// Compose stacks the views of a chart vertically. Each view is a
// column of panels, one per row facet, over a shared x axis. Every
// panel has three cells: the row header, the y axis labels and the
// plot area. Cells are arranged in one grid so that the plot areas of
// all views line up.
package facet

import (
	"math"
	"strconv"

	"github.com/aclements/go-gg/gg/layout"
	"github.com/aclements/go-gg/table"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/internal/theme"
	"github.com/aclements/mwplot/scales"
	"github.com/aclements/mwplot/spec"
)

// Partition splits recs into row facets by row's field, ordered by
// row's sort. Records keep their order within a facet.
//
// If row is nil, Partition returns a single unnamed group holding all
// of recs. Otherwise, empty recs yield no groups.
func Partition(recs []data.Record, row *spec.FieldDef) []data.Group {
	if row == nil {
		return []data.Group{{Records: recs}}
	}
	if len(recs) == 0 {
		return nil
	}

	keys := make([]string, len(recs))
	index := make([]int, len(recs))
	for i, rec := range recs {
		keys[i] = scales.Key(rec, row)
		index[i] = i
	}
	tab := table.NewBuilder(nil).Add("key", keys).Add("index", index).Done()
	g := table.GroupBy(tab, "key")
	byKey := make(map[string][]data.Record)
	for _, gid := range g.Tables() {
		key := gid.Label().(string)
		for _, i := range g.Table(gid).MustColumn("index").([]int) {
			byKey[key] = append(byKey[key], recs[i])
		}
	}

	order := scales.Categories(recs, row)
	groups := make([]data.Group, len(order))
	for i, key := range order {
		groups[i] = data.Group{Key: key, Records: byKey[key]}
	}
	return groups
}

// A Box is a rectangle in chart coordinates.
type Box struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) is in b.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Layout is the geometry of a chart for one parameter snapshot. A
// Layout is rebuilt for each snapshot and never modified.
type Layout struct {
	Spec  *spec.Spec
	Theme *theme.Theme

	// Width and Height give the size of the whole chart.
	Width, Height float64

	Title, Subtitle string
	// TitleBox holds the title and subtitle lines.
	TitleBox Box

	Views []*View

	// Legend is nil if no view encodes color.
	Legend *Legend
}

// Legend is a color gradient legend.
type Legend struct {
	Title string
	Color *scales.Color
	// Gradient is the box of the gradient bar. Labels are drawn to
	// its right and the title above it.
	Gradient Box
}

// Labels returns the labels of the legend's color stops.
func (lg *Legend) Labels() []string {
	labels := make([]string, len(lg.Color.Stops))
	for i, x := range lg.Color.Stops {
		labels[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return labels
}

// View is the geometry of one view.
type View struct {
	Index int
	Spec  *spec.View

	// X maps the x channel to the plot area. All panels share it.
	X *scales.Linear
	// Color is nil if the view has no color channel.
	Color *scales.Color

	Panels []*Panel

	// Plot is the box spanning the plot areas of all panels.
	Plot Box
	// XAxis is the box of the x axis ticks, labels and title below
	// the last panel.
	XAxis Box

	XTitle, YTitle string
	// SharedYAxis is set if the panels share one y axis title
	// rather than each carrying its own.
	SharedYAxis bool
	// XTicks is the maximum number of major x ticks.
	XTicks int
}

// Panel is the geometry of one row facet of a view.
type Panel struct {
	// Key is the facet's row value, or "" for an unfaceted view.
	Key     string
	Records []data.Record

	// Y maps the y channel to this panel's plot area.
	Y *scales.Band

	Header Box
	Labels Box
	Plot   Box
}

// cell is a fixed size grid cell.
type cell struct {
	layout.Leaf
	w, h float64
}

func (c *cell) SizeHint() (w, h float64, flexw, flexh bool) {
	return c.w, c.h, false, false
}

func (c *cell) box(dx, dy float64) Box {
	x, y, w, h := c.Layout()
	return Box{x + dx, y + dy, w, h}
}

// Grid columns.
const (
	colHeader = iota
	colLabels
	colPlot
)

// Compose lays out s for one snapshot. groups[i] holds the facets of
// view i, as returned by Partition, and set holds the scales resolved
// for them. Compose sets the ranges of the scales in set.
func Compose(s *spec.Spec, groups [][]data.Group, set *scales.Set, th *theme.Theme) *Layout {
	if th == nil {
		th = &theme.Default
	}
	l := &Layout{
		Spec:     s,
		Theme:    th,
		Title:    s.Title.Text,
		Subtitle: s.Title.Subtitle,
	}

	// Column widths are shared by all views.
	var headerW, labelsW float64
	for i, v := range s.VConcat {
		for j, g := range groups[i] {
			if v.Panelled() {
				headerW = math.Max(headerW, theme.TextWidth(g.Key, th.FontSize)+2*th.LabelPadding)
			}
			labelsW = math.Max(labelsW, labelsWidth(v, set.Views[i].Y[j], th))
		}
	}

	var grid layout.Grid
	type viewCells struct {
		header, labels, plot []*cell
		axis                 *cell
	}
	cells := make([]viewCells, len(s.VConcat))
	row := 0
	for i, v := range s.VConcat {
		vc := &cells[i]
		width := viewWidth(s, v, th)
		for j := range groups[i] {
			if j > 0 {
				grid.Add(&cell{h: th.FacetSpacing}, colPlot, row, 1, 1)
				row++
			}
			h := panelHeight(s, v, set.Views[i].Y[j], th)
			hc, lc, pc := &cell{w: headerW, h: h}, &cell{w: labelsW, h: h}, &cell{w: width, h: h}
			grid.Add(hc, colHeader, row, 1, 1)
			grid.Add(lc, colLabels, row, 1, 1)
			grid.Add(pc, colPlot, row, 1, 1)
			vc.header = append(vc.header, hc)
			vc.labels = append(vc.labels, lc)
			vc.plot = append(vc.plot, pc)
			row++
		}
		if len(groups[i]) > 0 {
			vc.axis = &cell{w: width, h: axisHeight(v, th)}
			grid.Add(vc.axis, colPlot, row, 1, 1)
			row++
		}
		if i < len(s.VConcat)-1 {
			grid.Add(&cell{h: th.ViewSpacing}, colPlot, row, 1, 1)
			row++
		}
	}
	// Lay out at the natural size. Any allocated space would be
	// spread over the columns.
	grid.SetLayout(0, 0, 0, 0)
	gridW, gridH, _, _ := grid.SizeHint()

	// Title.
	top := th.Padding
	if l.Title != "" || l.Subtitle != "" {
		h := 0.0
		if l.Title != "" {
			h += th.TitleFontSize + th.LabelPadding
		}
		if l.Subtitle != "" {
			h += th.FontSize + th.LabelPadding
		}
		l.TitleBox = Box{th.Padding, top, gridW, h}
		top += h + th.LabelPadding
	}
	left := th.Padding

	for i, v := range s.VConcat {
		vc := &cells[i]
		vs := set.Views[i]
		view := &View{
			Index:  i,
			Spec:   v,
			X:      vs.X,
			Color:  vs.Color,
			XTitle: v.Encoding.X.AxisTitle(),
		}
		if v.Encoding.Y != nil {
			view.YTitle = v.Encoding.Y.AxisTitle()
			view.SharedYAxis = s.ResolvedAxes(v).Y == spec.Shared
		}
		for j, g := range groups[i] {
			p := &Panel{
				Key:     g.Key,
				Records: g.Records,
				Header:  vc.header[j].box(left, top),
				Labels:  vc.labels[j].box(left, top),
				Plot:    vc.plot[j].box(left, top),
			}
			// The plot column is as wide as the widest view.
			p.Plot.W = vc.plot[j].w
			p.Y = vs.Y[j].Clone()
			p.Y.SetRange(p.Plot.Y, p.Plot.Y+p.Plot.H)
			view.Panels = append(view.Panels, p)
		}
		if len(view.Panels) > 0 {
			first, last := view.Panels[0].Plot, view.Panels[len(view.Panels)-1].Plot
			view.Plot = Box{first.X, first.Y, first.W, last.Y + last.H - first.Y}
			view.XAxis = vc.axis.box(left, top)
			view.XAxis.W = vc.axis.w
			view.X.SetRange(view.Plot.X, view.Plot.X+view.Plot.W)
		}
		view.XTicks = int(viewWidth(s, v, th) / th.TickSpacing)
		if view.XTicks < 2 {
			view.XTicks = 2
		}
		l.Views = append(l.Views, view)
	}

	l.Width = left + gridW + th.Padding
	l.Height = top + gridH + th.Padding

	// The legend follows the first view with a color channel.
	for _, view := range l.Views {
		if view.Color == nil {
			continue
		}
		f := view.Spec.Encoding.Color
		title := f.Title
		if title == "" {
			title = f.Field
		}
		const barW, barH = 16, 100
		x := left + gridW + th.ViewSpacing
		y := top + th.FontSize + th.LabelPadding
		l.Legend = &Legend{Title: title, Color: view.Color, Gradient: Box{x, y, barW, barH}}
		labelW := 0.0
		for _, label := range l.Legend.Labels() {
			labelW = math.Max(labelW, theme.TextWidth(label, th.FontSize))
		}
		w := math.Max(barW+th.LabelPadding+labelW, theme.TextWidth(title, th.FontSize))
		l.Width = math.Max(l.Width, x+w+th.Padding)
		l.Height = math.Max(l.Height, y+barH+th.FontSize/2+th.Padding)
		break
	}
	return l
}

// viewWidth returns the plot width of v.
func viewWidth(s *spec.Spec, v *spec.View, th *theme.Theme) float64 {
	switch {
	case v.Width > 0:
		return v.Width
	case s.Config.View.ContinuousWidth > 0:
		return s.Config.View.ContinuousWidth
	}
	return th.Width
}

// panelHeight returns the plot height of one panel of v with y scale
// y.
func panelHeight(s *spec.Spec, v *spec.View, y *scales.Band, th *theme.Theme) float64 {
	n := math.Max(1, float64(y.Len()))
	switch {
	case v.Height.Fixed > 0:
		return v.Height.Fixed
	case v.Height.Step > 0:
		return v.Height.Step * n
	case s.Config.View.DiscreteHeight > 0:
		return s.Config.View.DiscreteHeight
	}
	return th.Step * n
}

// labelsWidth returns the width of the y axis of a panel of v.
func labelsWidth(v *spec.View, y *scales.Band, th *theme.Theme) float64 {
	f := v.Encoding.Y
	if f == nil {
		return 0
	}
	limit := th.LabelLimit
	if f.Axis != nil && f.Axis.LabelLimit > 0 {
		limit = f.Axis.LabelLimit
	}
	w := 0.0
	for _, cat := range y.Domain() {
		w = math.Max(w, theme.TextWidth(cat, th.FontSize))
	}
	w = math.Min(w, limit) + th.TickSize + th.LabelPadding
	if f.AxisTitle() != "" {
		w += th.FontSize + th.LabelPadding
	}
	return w
}

// axisHeight returns the height of v's x axis.
func axisHeight(v *spec.View, th *theme.Theme) float64 {
	h := th.TickSize + th.LabelPadding + th.FontSize
	if v.Encoding.X.AxisTitle() != "" {
		h += th.LabelPadding + th.FontSize
	}
	return h
}
