// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline applies a chart's data transforms to its records.
package pipeline

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/aclements/go-gg/table"

	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/expr"
	"github.com/aclements/mwplot/spec"
)

// Warning is the logger used to report predicates that failed to
// evaluate.
var Warning = log.New(os.Stderr, "[pipeline] ", log.Lshortfile)

// A Pipeline is an ordered list of filters.
type Pipeline struct {
	filters []expr.Node
}

// New returns a Pipeline applying the validated transforms ts in
// order.
func New(ts ...[]*spec.Transform) (*Pipeline, error) {
	p := &Pipeline{}
	for _, list := range ts {
		for _, t := range list {
			n := t.Pred
			if n == nil {
				var err error
				if n, err = expr.Parse(t.Filter); err != nil {
					return nil, fmt.Errorf("filter %q: %w", t.Filter, err)
				}
			}
			p.filters = append(p.filters, n)
		}
	}
	return p, nil
}

// Len returns the number of filters in p.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Run returns the records of recs that pass every filter, in order,
// evaluating parameters against params. A record whose predicate
// fails to evaluate is dropped and the failure is logged. Run does
// not modify recs.
func (p *Pipeline) Run(recs []data.Record, params expr.Params) []data.Record {
	out := make([]data.Record, 0, len(recs))
	for i, rec := range recs {
		if p.keep(i, rec, params) {
			out = append(out, rec)
		}
	}
	return out
}

func (p *Pipeline) keep(i int, rec data.Record, params expr.Params) bool {
	env := expr.Env{Datum: rec, Params: params}
	for _, f := range p.filters {
		ok, err := expr.Test(f, env)
		if err != nil {
			Warning.Printf("record %d: %v", i, err)
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// Table returns recs as a table with the given columns. A column whose
// values are all numbers or null becomes a []float64 column with NaN
// for null; any other column becomes a []string column.
func Table(recs []data.Record, cols ...string) *table.Table {
	b := table.NewBuilder(nil)
	for _, col := range cols {
		numeric := true
		for _, rec := range recs {
			if v := rec[col]; v.Kind() != data.Number && !v.IsNull() {
				numeric = false
				break
			}
		}
		if numeric {
			xs := make([]float64, len(recs))
			for i, rec := range recs {
				xs[i] = math.NaN()
				if x, ok := rec[col].Float(); ok {
					xs[i] = x
				}
			}
			b.Add(col, xs)
		} else {
			ss := make([]string, len(recs))
			for i, rec := range recs {
				ss[i] = rec[col].String()
			}
			b.Add(col, ss)
		}
	}
	return b.Done()
}
