// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart runs an interactive chart session.
//
// A Session owns the parameter store of one chart document. Gestures
// are posted to the session as Events and applied one at a time by
// Run. Whenever a gesture changes a parameter the chart reads, the
// session filters the data, resolves scales, lays out the chart and
// builds a new Frame.
package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/facet"
	"github.com/aclements/mwplot/interact"
	"github.com/aclements/mwplot/internal/theme"
	"github.com/aclements/mwplot/param"
	"github.com/aclements/mwplot/pipeline"
	"github.com/aclements/mwplot/render"
	"github.com/aclements/mwplot/scales"
	"github.com/aclements/mwplot/spec"
)

// Warning is the logger for events that could not be applied.
var Warning = log.New(os.Stderr, "[chart] ", log.Lshortfile)

// ErrClosed is returned by Post after Close.
var ErrClosed = errors.New("session closed")

// Options configure a Session. The zero Options are valid.
type Options struct {
	// Theme is the rendering theme. If nil, theme.Default is used.
	Theme *theme.Theme

	// ResetOn is the gesture that clears a zoom.
	ResetOn interact.ResetOn
}

// A Frame is the chart rendered for one parameter snapshot. Frames
// are never modified.
type Frame struct {
	// Seq numbers the frames of a session from 0.
	Seq int

	Snapshot param.Snapshot
	// Groups[i] holds the facets of view i.
	Groups [][]data.Group
	Layout *facet.Layout
	Scene  *render.Scene
}

// WriteSVG draws f to w.
func (f *Frame) WriteSVG(w io.Writer) error {
	return f.Scene.WriteSVG(w)
}

// A Session is one interactive chart.
type Session struct {
	spec  *spec.Spec
	store *param.Store
	ctl   *interact.Controller
	theme *theme.Theme
	pipes []*pipeline.Pipeline

	// apply serializes Dispatch and guards the fields below it.
	apply sync.Mutex
	// dirty is set by parameter subscriptions.
	dirty   bool
	cancels []func()
	seq     int

	lock    sync.Mutex
	queue   []Event
	closed  bool
	frame   *Frame
	onFrame []func(*Frame)
	wake    chan struct{}
}

// New starts a session for s and renders its first frame. It returns
// a *spec.SchemaError if s cannot be rendered.
func New(s *spec.Spec, opts *Options) (*Session, error) {
	if opts == nil {
		opts = &Options{}
	}
	th := opts.Theme
	if th == nil {
		th = &theme.Default
	}
	store, err := param.FromSpec(s)
	if err != nil {
		return nil, &spec.SchemaError{Path: "params", Msg: err.Error(), Err: err}
	}
	ctl, err := interact.New(s, store, opts.ResetOn)
	if err != nil {
		return nil, &spec.SchemaError{Path: "params", Msg: err.Error(), Err: err}
	}
	sess := &Session{
		spec:  s,
		store: store,
		ctl:   ctl,
		theme: th,
		wake:  make(chan struct{}, 1),
	}
	for i, v := range s.VConcat {
		p, err := pipeline.New(s.Transforms, v.Transforms)
		if err != nil {
			return nil, &spec.SchemaError{Path: fmt.Sprintf("vconcat[%d].transform", i), Msg: err.Error(), Err: err}
		}
		sess.pipes = append(sess.pipes, p)
	}

	// Subscribe to the parameters the chart reads.
	mark := func(*param.Param) { sess.dirty = true }
	var names []string
	if p := s.Slider(); p != nil {
		names = append(names, p.Name)
	}
	for _, v := range s.VConcat {
		if name := v.ZoomParam(); name != "" {
			names = append(names, name)
		}
	}
	subscribed := map[string]bool{}
	for _, name := range names {
		if subscribed[name] {
			continue
		}
		subscribed[name] = true
		cancel, err := store.Subscribe(name, mark)
		if err != nil {
			return nil, &spec.SchemaError{Path: "params", Msg: err.Error(), Err: err}
		}
		sess.cancels = append(sess.cancels, cancel)
	}

	f, err := sess.recompute()
	if err != nil {
		var se *spec.SchemaError
		if !errors.As(err, &se) {
			err = &spec.SchemaError{Msg: err.Error(), Err: err}
		}
		return nil, err
	}
	sess.frame = f
	return sess, nil
}

// Spec returns the session's chart document.
func (s *Session) Spec() *spec.Spec {
	return s.spec
}

// Store returns the session's parameter store. The store must only
// be modified through the session's events.
func (s *Session) Store() *param.Store {
	return s.store
}

// Controller returns the session's interaction controller.
func (s *Session) Controller() *interact.Controller {
	return s.ctl
}

// Frame returns the latest frame.
func (s *Session) Frame() *Frame {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.frame
}

// OnFrame registers fn to be called with every new frame, in order.
// fn is called on the goroutine applying events.
func (s *Session) OnFrame(fn func(*Frame)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.onFrame = append(s.onFrame, fn)
}

// Post queues ev to be applied by Run. It never blocks.
func (s *Session) Post(ev Event) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.queue = append(s.queue, ev)
	s.signal()
	return nil
}

// Close stops accepting events. Run returns once the events already
// posted have been applied.
func (s *Session) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed {
		s.closed = true
		s.signal()
	}
}

// signal wakes Run. s.lock must be held.
func (s *Session) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run applies posted events in order until the session is closed or
// ctx is done. Consecutive slider events waiting in the queue are
// coalesced to the last one. Every event that changes the chart
// produces a frame before the next event is applied.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
		for {
			s.lock.Lock()
			evs, closed := s.queue, s.closed
			s.queue = nil
			s.lock.Unlock()

			if len(evs) == 0 {
				if closed {
					s.unsubscribe()
					return nil
				}
				break
			}
			for _, ev := range coalesce(evs) {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := s.Dispatch(ev); err != nil {
					Warning.Printf("%s: %v", ev, err)
				}
			}
		}
	}
}

// unsubscribe cancels the session's parameter subscriptions.
func (s *Session) unsubscribe() {
	s.apply.Lock()
	defer s.apply.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

// Dispatch applies ev immediately and returns the resulting frame. If
// ev changes no parameter, Dispatch returns the current frame, unless
// ev is Redraw.
func (s *Session) Dispatch(ev Event) (*Frame, error) {
	s.apply.Lock()
	defer s.apply.Unlock()

	if err := ev.apply(s.ctl); err != nil {
		return s.Frame(), err
	}
	_, redraw := ev.(Redraw)
	if !s.dirty && !redraw {
		return s.Frame(), nil
	}
	s.dirty = false
	f, err := s.recompute()
	if err != nil {
		return s.Frame(), err
	}

	s.lock.Lock()
	s.frame = f
	fns := append(([]func(*Frame))(nil), s.onFrame...)
	s.lock.Unlock()
	for _, fn := range fns {
		fn(f)
	}
	return f, nil
}

// recompute renders the chart for the current parameters.
func (s *Session) recompute() (*Frame, error) {
	snap := s.store.Snapshot()
	groups := make([][]data.Group, len(s.spec.VConcat))
	for i, v := range s.spec.VConcat {
		recs := s.pipes[i].Run(s.spec.Data.Values, snap)
		groups[i] = facet.Partition(recs, v.Encoding.Row)
	}
	set, err := scales.Resolve(s.spec, groups, snap)
	if err != nil {
		return nil, err
	}
	for i, vs := range set.Views {
		lo, hi := vs.X.Base()
		s.ctl.SetBase(i, lo, hi)
	}
	l := facet.Compose(s.spec, groups, set, s.theme)
	f := &Frame{
		Seq:      s.seq,
		Snapshot: snap,
		Groups:   groups,
		Layout:   l,
		Scene:    render.Build(l, s.theme),
	}
	s.seq++
	return f, nil
}
