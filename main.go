// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mwplot renders match weight charts of record linkage
// models.
//
// mwplot reads a chart document in JSON or YAML and writes the chart
// as SVG. The document is a Vega-Lite-like specification with an
// iteration slider, filters and a vertical concatenation of bar chart
// views. If no document is given, mwplot draws the standard match
// weight chart of the records given by -data.
//
// With -script, mwplot replays an interaction script and writes one
// SVG per rendered frame. Each line of the script is one event:
//
//	slide N             move the iteration slider to N
//	zoom VIEW LO HI     set the x domain of VIEW and the views linked to it
//	pan VIEW DELTA      shift the x domain by DELTA
//	wheel VIEW AT F     scale the x domain by F about AT
//	reset VIEW          clear the zoom
//	dblclick VIEW       double click in VIEW
//	redraw              render a frame
//
// Blank lines and lines starting with # are ignored.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/aclements/mwplot/chart"
	"github.com/aclements/mwplot/data"
	"github.com/aclements/mwplot/interact"
	"github.com/aclements/mwplot/internal/theme"
	"github.com/aclements/mwplot/spec"
)

func main() {
	log.SetPrefix("mwplot: ")
	log.SetFlags(0)

	var (
		flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to `file`")
		flagMemProfile = flag.String("memprofile", "", "write heap profile to `file`")
		flagOut        = flag.String("o", "", "write output to `file` (default: stdout); with -script, a pattern with one %d verb for the frame number")
		flagData       = flag.String("data", "", "read records from JSON `file`, replacing the document's data")
		flagIteration  = flag.Float64("iteration", -1, "set the slider to `n` before rendering")
		flagZoom       = flag.String("zoom", "", "zoom the first zoomable view to `lo,hi`")
		flagTable      = flag.Bool("table", false, "output the filtered records as tables instead of a chart")
		flagScript     = flag.String("script", "", "replay interaction events from `file`")
		flagTheme      = flag.String("theme", "", "read the rendering theme from YAML `file`")
		flagReset      = flag.String("reset", "dblclick", "zoom reset `policy`: dblclick or clear")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [spec.json|spec.yaml]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 || (flag.NArg() == 0 && *flagData == "") {
		flag.Usage()
		os.Exit(2)
	}

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *flagMemProfile != "" {
		defer func() {
			runtime.GC()
			f, err := os.Create(*flagMemProfile)
			if err != nil {
				log.Fatal(err)
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	s, err := loadSpec(flag.Arg(0), *flagData)
	if err != nil {
		log.Fatal(err)
	}

	opts := &chart.Options{}
	if *flagTheme != "" {
		if opts.Theme, err = theme.Load(*flagTheme); err != nil {
			log.Fatal(err)
		}
	}
	if opts.ResetOn, err = interact.ParseResetOn(*flagReset); err != nil {
		log.Fatal(err)
	}
	sess, err := chart.New(s, opts)
	if err != nil {
		log.Fatal(err)
	}

	// Initial state.
	if *flagIteration >= 0 {
		if _, err := sess.Dispatch(chart.Slide{Value: *flagIteration}); err != nil {
			log.Fatal(err)
		}
	}
	if *flagZoom != "" {
		ev, err := parseZoom(sess, *flagZoom)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := sess.Dispatch(ev); err != nil {
			log.Fatal(err)
		}
	}

	if *flagScript != "" {
		pattern := *flagOut
		if pattern == "" {
			pattern = "frame%03d.svg"
		}
		if err := replay(context.Background(), sess, *flagScript, pattern); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Prepare for output.
	f := os.Stdout
	if *flagOut != "" {
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}

	frame := sess.Frame()
	if *flagTable {
		if err := printTables(f, s, frame); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := frame.WriteSVG(f); err != nil {
		log.Fatal(err)
	}
}

// loadSpec reads the chart document at path. If dataPath is not
// empty, its records replace the document's data. If path is empty,
// loadSpec returns the match weight chart of the records.
func loadSpec(path, dataPath string) (*spec.Spec, error) {
	var recs []data.Record
	if dataPath != "" {
		f, err := os.Open(dataPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if recs, err = data.Decode(f); err != nil {
			return nil, fmt.Errorf("%s: %w", dataPath, err)
		}
	}
	if path == "" {
		return spec.MatchWeightChart(recs)
	}
	s, err := spec.Load(path)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		return s.WithData(recs)
	}
	return s, nil
}

// parseZoom parses a "lo,hi" zoom flag into a zoom of the first
// zoomable view.
func parseZoom(sess *chart.Session, arg string) (chart.Event, error) {
	los, his, ok := strings.Cut(arg, ",")
	lo, err1 := strconv.ParseFloat(strings.TrimSpace(los), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(his), 64)
	if !ok || err1 != nil || err2 != nil {
		return nil, fmt.Errorf("bad -zoom %q: want lo,hi", arg)
	}
	for i := range sess.Spec().VConcat {
		if sess.Controller().Zoomable(i) {
			return chart.Zoom{View: i, Lo: lo, Hi: hi}, nil
		}
	}
	return nil, fmt.Errorf("-zoom: chart has no zoomable view")
}
