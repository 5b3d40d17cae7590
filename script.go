// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/sync/errgroup"

	"github.com/aclements/mwplot/chart"
)

// replay posts the events of the script at path to sess and writes
// the current frame and each frame sess renders after it to a file
// named by pattern.
func replay(ctx context.Context, sess *chart.Session, path, pattern string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	first := sess.Frame()
	if err := writeFrame(first, fmt.Sprintf(pattern, first.Seq)); err != nil {
		return err
	}
	var writeErr error
	sess.OnFrame(func(fr *chart.Frame) {
		if writeErr == nil {
			writeErr = writeFrame(fr, fmt.Sprintf(pattern, fr.Seq))
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer sess.Close()
		return feed(f, path, sess)
	})
	g.Go(func() error {
		return sess.Run(ctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return writeErr
}

// feed parses events from r and posts them to sess.
func feed(r io.Reader, path string, sess *chart.Session) error {
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := shellquote.Split(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
		ev, err := chart.ParseEvent(words)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
		if err := sess.Post(ev); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeFrame(fr *chart.Frame, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fr.WriteSVG(f); err != nil {
		f.Close()
		return err
	}
	log.Printf("wrote %s", name)
	return f.Close()
}
