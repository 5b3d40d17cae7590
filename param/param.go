// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package param implements the store of interactive chart parameters.
//
// A Store holds range parameters, which are bound to a slider and
// hold a number, and interval parameters, which hold the x interval
// selected by zooming or panning. Interested components subscribe to
// the parameters they read and are notified synchronously when a
// parameter changes.
package param

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/aclements/mwplot/data"
)

// Warning is the logger used to report recovered out-of-range input.
var Warning = log.New(os.Stderr, "[param] ", log.Lshortfile)

// Kind is the kind of a parameter.
type Kind int

const (
	// Value is a plain parameter holding any scalar.
	Value Kind = iota
	// Range is a numeric parameter bound to a slider.
	Range
	// IntervalKind is a parameter holding an optional Interval.
	IntervalKind
)

// Interval is a selected range of a continuous domain.
type Interval struct {
	Lo, Hi float64
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%g, %g]", iv.Lo, iv.Hi)
}

// Width returns Hi - Lo.
func (iv Interval) Width() float64 {
	return iv.Hi - iv.Lo
}

// A Param is one named parameter. Params are created by a Store and
// compared by identity: two views that share a Param are linked.
type Param struct {
	name string
	kind Kind

	// min, max and step constrain Range parameters. step may be
	// 0 for a continuous range.
	min, max, step float64

	val      data.Value
	interval *Interval

	subs []*subscription
}

type subscription struct {
	fn func(*Param)
}

func (p *Param) Name() string { return p.name }
func (p *Param) Kind() Kind   { return p.kind }

// Bounds returns the bounds and step of a Range parameter.
func (p *Param) Bounds() (min, max, step float64) {
	return p.min, p.max, p.step
}

// Value returns the value of a Value or Range parameter.
func (p *Param) Value() data.Value {
	return p.val
}

// Interval returns the current interval of an interval parameter, or
// nil if there is no active selection.
func (p *Param) Interval() *Interval {
	if p.interval == nil {
		return nil
	}
	iv := *p.interval
	return &iv
}

// OutOfRangeError reports slider input outside a parameter's declared
// bounds. The input is clamped; the error is only logged.
type OutOfRangeError struct {
	Name    string
	Value   float64
	Clamped float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: value %g out of range, clamped to %g", e.Name, e.Value, e.Clamped)
}

var (
	ErrUnknown   = errors.New("unknown parameter")
	ErrWrongKind = errors.New("value has the wrong type for parameter")
	ErrBadValue  = errors.New("invalid interval")
)

// constrain clamps x to p's range and snaps it to p's step.
func (p *Param) constrain(x float64) (float64, *OutOfRangeError) {
	y := x
	if p.step > 0 {
		n := math.Round((y - p.min) / p.step)
		y = p.min + n*p.step
	}
	if y < p.min {
		y = p.min
	}
	if y > p.max {
		y = p.max
		if p.step > 0 {
			y = p.min + math.Floor((p.max-p.min)/p.step)*p.step
		}
	}
	if x < p.min || x > p.max {
		return y, &OutOfRangeError{p.name, x, y}
	}
	return y, nil
}

// set updates p and reports whether its value changed.
func (p *Param) set(v interface{}) (bool, error) {
	switch p.kind {
	case IntervalKind:
		var iv *Interval
		switch v := v.(type) {
		case nil:
		case Interval:
			iv = &v
		case *Interval:
			if v != nil {
				c := *v
				iv = &c
			}
		default:
			return false, fmt.Errorf("%s: %w: %T", p.name, ErrWrongKind, v)
		}
		if iv != nil {
			if iv.Lo > iv.Hi {
				iv.Lo, iv.Hi = iv.Hi, iv.Lo
			}
			if math.IsNaN(iv.Lo) || math.IsNaN(iv.Hi) || math.IsInf(iv.Lo, 0) || math.IsInf(iv.Hi, 0) || iv.Lo == iv.Hi {
				return false, fmt.Errorf("%s: %w %v", p.name, ErrBadValue, *iv)
			}
		}
		if (iv == nil) == (p.interval == nil) && (iv == nil || *iv == *p.interval) {
			return false, nil
		}
		p.interval = iv
		return true, nil

	case Range:
		var x float64
		switch v := v.(type) {
		case float64:
			x = v
		case int:
			x = float64(v)
		case data.Value:
			var ok bool
			if x, ok = v.Float(); !ok {
				return false, fmt.Errorf("%s: %w: %s", p.name, ErrWrongKind, v.Kind())
			}
		default:
			return false, fmt.Errorf("%s: %w: %T", p.name, ErrWrongKind, v)
		}
		if math.IsNaN(x) {
			return false, fmt.Errorf("%s: %w: NaN", p.name, ErrWrongKind)
		}
		y, oor := p.constrain(x)
		if oor != nil {
			Warning.Print(oor)
		}
		nv := data.Num(y)
		if nv.Identical(p.val) {
			return false, nil
		}
		p.val = nv
		return true, nil
	}

	nv, err := data.FromInterface(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %v", p.name, ErrWrongKind, err)
	}
	if nv.Identical(p.val) {
		return false, nil
	}
	p.val = nv
	return true, nil
}

// subscribe registers fn to be called after p changes.
func (p *Param) subscribe(fn func(*Param)) func() {
	s := &subscription{fn}
	p.subs = append(p.subs, s)
	return func() {
		for i, s2 := range p.subs {
			if s2 == s {
				p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

func (p *Param) notify() {
	// Copy so callbacks may unsubscribe.
	subs := append([]*subscription(nil), p.subs...)
	for _, s := range subs {
		s.fn(p)
	}
}
