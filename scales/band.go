// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/spec"
)

// PaddingInner is the default fraction of each band step left empty
// between neighboring bands.
const PaddingInner = 0.1

// Band is a discrete scale that divides a pixel range into one
// equal step per category.
type Band struct {
	cats  []string
	index map[string]int

	r0, r1       float64
	paddingInner float64
}

// NewBand returns a band scale over cats, in order. The range is
// initially [0, len(cats)].
func NewBand(cats []string) *Band {
	b := &Band{
		cats:         cats,
		index:        make(map[string]int, len(cats)),
		r1:           float64(len(cats)),
		paddingInner: PaddingInner,
	}
	for i, c := range cats {
		if _, ok := b.index[c]; !ok {
			b.index[c] = i
		}
	}
	return b
}

func (b *Band) String() string {
	return fmt.Sprintf("band [%s] => [%g,%g]", strings.Join(b.cats, ","), b.r0, b.r1)
}

// Domain returns the categories of b in order.
func (b *Band) Domain() []string {
	return b.cats
}

// Len returns the number of categories in b.
func (b *Band) Len() int {
	return len(b.cats)
}

// SetRange sets the pixel range of b.
func (b *Band) SetRange(r0, r1 float64) {
	b.r0, b.r1 = r0, r1
}

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 {
	if len(b.cats) == 0 {
		return 0
	}
	return (b.r1 - b.r0) / float64(len(b.cats))
}

// Bandwidth returns the width of one band.
func (b *Band) Bandwidth() float64 {
	return b.Step() * (1 - b.paddingInner)
}

// Map returns the start of the band of cat. ok is false if cat is
// not in b's domain.
func (b *Band) Map(cat string) (pos float64, ok bool) {
	i, ok := b.index[cat]
	if !ok {
		return 0, false
	}
	step := b.Step()
	return b.r0 + float64(i)*step + step*b.paddingInner/2, true
}

// Center returns the center of the band of cat.
func (b *Band) Center(cat string) (float64, bool) {
	pos, ok := b.Map(cat)
	return pos + b.Bandwidth()/2, ok
}

// Clone returns a copy of b with its own range.
func (b *Band) Clone() *Band {
	b2 := *b
	return &b2
}

// Key returns the category of rec under channel f. Missing fields are
// the category "null". Every record is in category "" of a nil
// channel.
func Key(rec data.Record, f *spec.FieldDef) string {
	if f == nil {
		return ""
	}
	return rec[f.Field].String()
}

// Categories returns the distinct categories of recs under channel f,
// ordered by f's sort.
//
// With a sort field, categories are ordered by the sort's aggregate
// of that field over each category's records; ties keep first
// appearance and categories with no numeric values sort last. Without
// one, categories are ordered by their own values, with null first and
// numbers before strings.
func Categories(recs []data.Record, f *spec.FieldDef) []string {
	type cat struct {
		key   string
		val   data.Value
		first int
		agg   aggregate
	}
	byField := f.Sort != nil && f.Sort.Field != ""
	var cats []*cat
	byKey := map[string]*cat{}
	for i, rec := range recs {
		v := rec[f.Field]
		k := v.String()
		c := byKey[k]
		if c == nil {
			c = &cat{key: k, val: v, first: i}
			byKey[k] = c
			cats = append(cats, c)
		}
		if byField {
			if x, ok := rec[f.Sort.Field].Float(); ok {
				c.agg.add(x)
			}
		}
	}

	desc := f.Sort.Descending()
	var less func(a, b *cat) bool
	if byField {
		op := f.Sort.Op
		less = func(a, b *cat) bool {
			x, y := a.agg.value(op), b.agg.value(op)
			switch {
			case math.IsNaN(x) || math.IsNaN(y):
				if math.IsNaN(x) != math.IsNaN(y) {
					return math.IsNaN(y)
				}
			case x != y:
				return (x < y) != desc
			}
			return a.first < b.first
		}
	} else {
		less = func(a, b *cat) bool {
			c := compareValues(a.val, b.val)
			if c != 0 {
				return (c < 0) != desc
			}
			return a.first < b.first
		}
	}
	sort.SliceStable(cats, func(i, j int) bool { return less(cats[i], cats[j]) })

	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.key
	}
	return out
}

// aggregate accumulates the values of a sort field.
type aggregate struct {
	n             int
	sum, min, max float64
}

func (a *aggregate) add(x float64) {
	if math.IsNaN(x) {
		return
	}
	if a.n == 0 || x < a.min {
		a.min = x
	}
	if a.n == 0 || x > a.max {
		a.max = x
	}
	a.sum += x
	a.n++
}

// value returns the aggregate op of a, or NaN if a is empty.
func (a *aggregate) value(op string) float64 {
	if a.n == 0 {
		return math.NaN()
	}
	switch op {
	case "sum":
		return a.sum
	case "max":
		return a.max
	case "mean":
		return a.sum / float64(a.n)
	}
	return a.min
}

// compareValues orders values by kind, then by value.
func compareValues(a, b data.Value) int {
	if ka, kb := a.Kind(), b.Kind(); ka != kb {
		return int(ka) - int(kb)
	}
	if x, ok := a.Float(); ok {
		y, _ := b.Float()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(a.String(), b.String())
}
