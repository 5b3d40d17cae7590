// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	if err := os.WriteFile(path, []byte("fontSize: 12\nwidth: 600\n"), 0666); err != nil {
		t.Fatal(err)
	}
	th, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if th.FontSize != 12 || th.Width != 600 {
		t.Errorf("got font size %v width %v, want 12 600", th.FontSize, th.Width)
	}
	if th.Step != Default.Step || th.FontFamily != Default.FontFamily {
		t.Errorf("unset fields lost their defaults: %+v", th)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("fontSize: -1\n"), 0666)
	if _, err := Load(bad); err == nil {
		t.Errorf("negative font size accepted")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("missing file accepted")
	}
}

func TestTextWidth(t *testing.T) {
	// basicfont glyphs are 7 pixels wide at size 13.
	if got := TextWidth("abc", 13); got != 21 {
		t.Errorf("TextWidth(abc, 13) = %v, want 21", got)
	}
	if a, b := TextWidth("abc", 10), TextWidth("abcdef", 10); b <= a {
		t.Errorf("longer text is not wider: %v <= %v", b, a)
	}
}

func TestTruncate(t *testing.T) {
	s := "Levenshtein distance of first_name <= 2"
	if got := Truncate(s, 13, 0); got != s {
		t.Errorf("no limit: got %q", got)
	}
	got := Truncate(s, 13, 70)
	if TextWidth(got, 13) > 70 || []rune(got)[len([]rune(got))-1] != '…' {
		t.Errorf("Truncate = %q (width %v), want an ellipsized string within 70", got, TextWidth(got, 13))
	}
}
