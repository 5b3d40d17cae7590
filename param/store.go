// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package param

import (
	"fmt"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/spec"
)

// A Store is the set of parameters of one chart session. It is the
// only mutable interactive state of a chart. A Store is not safe for
// concurrent use; a chart session owns it from a single goroutine.
type Store struct {
	params map[string]*Param
	order  []*Param
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{params: make(map[string]*Param)}
}

// FromSpec returns a Store holding the parameters declared by s.
// Interval selections with the same name in several views are
// declared once and shared.
func FromSpec(s *spec.Spec) (*Store, error) {
	st := NewStore()
	for _, p := range s.Params {
		var err error
		switch {
		case p.Select != nil:
			_, err = st.DeclareInterval(p.Name)
		case p.Bind != nil:
			b := p.Bind
			x, ok := p.Value.Float()
			if !ok {
				x = b.Min
			}
			_, err = st.DeclareRange(p.Name, x, b.Min, b.Max, b.Step)
		default:
			_, err = st.DeclareValue(p.Name, p.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, v := range s.VConcat {
		for _, p := range v.Params {
			if _, err := st.DeclareInterval(p.Name); err != nil {
				return nil, err
			}
		}
	}
	return st, nil
}

func (s *Store) declare(p *Param) (*Param, error) {
	if _, ok := s.params[p.name]; ok {
		return nil, fmt.Errorf("parameter %s already declared", p.name)
	}
	s.params[p.name] = p
	s.order = append(s.order, p)
	return p, nil
}

// DeclareValue declares a plain parameter with initial value v.
func (s *Store) DeclareValue(name string, v data.Value) (*Param, error) {
	return s.declare(&Param{name: name, kind: Value, val: v})
}

// DeclareRange declares a slider-bound parameter. Its value is always
// in [min, max] and, if step > 0, a multiple of step from min.
func (s *Store) DeclareRange(name string, value, min, max, step float64) (*Param, error) {
	if !(min <= max) || step < 0 {
		return nil, fmt.Errorf("parameter %s: bad range [%g, %g] step %g", name, min, max, step)
	}
	p := &Param{name: name, kind: Range, min: min, max: max, step: step}
	y, oor := p.constrain(value)
	if oor != nil {
		Warning.Print(oor)
	}
	p.val = data.Num(y)
	return s.declare(p)
}

// DeclareInterval declares an interval parameter with no active
// selection. If name is already declared as an interval parameter,
// DeclareInterval returns that same Param.
func (s *Store) DeclareInterval(name string) (*Param, error) {
	if p, ok := s.params[name]; ok {
		if p.kind != IntervalKind {
			return nil, fmt.Errorf("parameter %s already declared with another kind", name)
		}
		return p, nil
	}
	return s.declare(&Param{name: name, kind: IntervalKind})
}

// Shared returns the Param named name, or nil. Every caller gets the
// same *Param for a given name.
func (s *Store) Shared(name string) *Param {
	return s.params[name]
}

// Params returns the parameters in declaration order.
func (s *Store) Params() []*Param {
	return append([]*Param(nil), s.order...)
}

// Get returns the value of a plain or range parameter.
func (s *Store) Get(name string) (data.Value, bool) {
	p, ok := s.params[name]
	if !ok || p.kind == IntervalKind {
		return data.NullValue, false
	}
	return p.val, true
}

// GetInterval returns the active interval of an interval parameter.
// It returns nil if there is no active selection.
func (s *Store) GetInterval(name string) (*Interval, bool) {
	p, ok := s.params[name]
	if !ok || p.kind != IntervalKind {
		return nil, false
	}
	return p.Interval(), true
}

// Set sets parameter name to v. For range parameters, v is a float64,
// int or data.Value and is clamped into range. For interval
// parameters, v is an Interval, a *Interval, or nil to clear the
// selection.
//
// If the value changes, Set notifies the parameter's subscribers
// before returning.
func (s *Store) Set(name string, v interface{}) error {
	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknown)
	}
	return s.SetParam(p, v)
}

// SetParam is like Set, but identifies the parameter by identity.
func (s *Store) SetParam(p *Param, v interface{}) error {
	if s.params[p.name] != p {
		return fmt.Errorf("%s: %w", p.name, ErrUnknown)
	}
	changed, err := p.set(v)
	if err != nil {
		return err
	}
	if changed {
		p.notify()
	}
	return nil
}

// Subscribe registers fn to be called synchronously after parameter
// name changes. Subscribers are called in subscription order. The
// returned function cancels the subscription.
func (s *Store) Subscribe(name string, fn func(*Param)) (cancel func(), err error) {
	p, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknown)
	}
	return p.subscribe(fn), nil
}

// Snapshot returns an immutable copy of the current parameter values.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{values: make(map[string]data.Value, len(s.order))}
	for _, p := range s.order {
		if p.kind == IntervalKind {
			if p.interval != nil {
				if snap.intervals == nil {
					snap.intervals = make(map[string]Interval)
				}
				snap.intervals[p.name] = *p.interval
			}
			snap.values[p.name] = data.NullValue
			continue
		}
		snap.values[p.name] = p.val
	}
	return snap
}

// A Snapshot is the set of parameter values at one point in time.
type Snapshot struct {
	values    map[string]data.Value
	intervals map[string]Interval
}

// Param returns the value of parameter name. Interval parameters have
// a null value.
func (s Snapshot) Param(name string) (data.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Interval returns the active interval of parameter name, or nil.
func (s Snapshot) Interval(name string) *Interval {
	iv, ok := s.intervals[name]
	if !ok {
		return nil
	}
	return &iv
}

// Equal reports whether s and o hold the same values.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.values) != len(o.values) || len(s.intervals) != len(o.intervals) {
		return false
	}
	for k, v := range s.values {
		if w, ok := o.values[k]; !ok || !v.Identical(w) {
			return false
		}
	}
	for k, iv := range s.intervals {
		if iv2, ok := o.intervals[k]; !ok || iv != iv2 {
			return false
		}
	}
	return true
}
