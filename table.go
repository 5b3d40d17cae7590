// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"

	"github.com/aclements/mwplot/chart"
	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/pipeline"
	"github.com/aclements/mwplot/spec"
)

// printTables prints the records of each view of frame as a table of
// the fields the view encodes, grouped by row facet.
func printTables(w io.Writer, s *spec.Spec, frame *chart.Frame) error {
	for i, v := range s.VConcat {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# vconcat[%d]\n", i)
		var recs []data.Record
		for _, g := range frame.Groups[i] {
			recs = append(recs, g.Records...)
		}
		var tab table.Grouping = pipeline.Table(recs, v.Fields()...)
		if v.Panelled() {
			tab = table.GroupBy(tab, v.Encoding.Row.Field)
		}
		if err := table.Fprint(w, tab); err != nil {
			return err
		}
	}
	return nil
}
