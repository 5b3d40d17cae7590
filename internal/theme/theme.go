// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package theme holds the sizes, spacings and colors used to lay out
// and draw charts.
package theme

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"gopkg.in/yaml.v3"
)

// Theme configures chart rendering. All sizes are in pixels.
type Theme struct {
	FontFamily    string  `yaml:"fontFamily"`
	FontSize      float64 `yaml:"fontSize" validate:"gt=0"`
	TitleFontSize float64 `yaml:"titleFontSize" validate:"gt=0"`

	Background string `yaml:"background"`
	TextColor  string `yaml:"textColor"`
	AxisColor  string `yaml:"axisColor"`
	HatchColor string `yaml:"hatchColor"`
	// GridColor and GridWidth style gridlines that have no
	// conditional style.
	GridColor string  `yaml:"gridColor"`
	GridWidth float64 `yaml:"gridWidth" validate:"gte=0"`

	// Padding surrounds the whole chart.
	Padding float64 `yaml:"padding" validate:"gte=0"`
	// ViewSpacing separates concatenated views.
	ViewSpacing float64 `yaml:"viewSpacing" validate:"gte=0"`
	// FacetSpacing separates the row panels of a faceted view.
	FacetSpacing float64 `yaml:"facetSpacing" validate:"gte=0"`
	// LabelPadding separates axis labels from the plot.
	LabelPadding float64 `yaml:"labelPadding" validate:"gte=0"`
	// TickSize is the length of axis ticks.
	TickSize float64 `yaml:"tickSize" validate:"gte=0"`
	// LabelLimit truncates y labels wider than this.
	LabelLimit float64 `yaml:"labelLimit" validate:"gte=0"`

	// Width is the plot width of views that do not give one.
	Width float64 `yaml:"width" validate:"gt=0"`
	// Step is the band step of discrete views that do not give a
	// height.
	Step float64 `yaml:"step" validate:"gt=0"`
	// TickSpacing is the minimum distance between x axis ticks.
	TickSpacing float64 `yaml:"tickSpacing" validate:"gt=0"`
}

// Default is the theme used when none is given.
var Default = Theme{
	FontFamily:    "sans-serif",
	FontSize:      10,
	TitleFontSize: 13,

	Background: "#ffffff",
	TextColor:  "#000000",
	AxisColor:  "#888888",
	HatchColor: "#999999",
	GridColor:  "#dddddd",
	GridWidth:  1,

	Padding:      5,
	ViewSpacing:  20,
	FacetSpacing: 4,
	LabelPadding: 3,
	TickSize:     5,
	LabelLimit:   180,

	Width:       400,
	Step:        20,
	TickSpacing: 40,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads a YAML theme from path. Fields missing from the file
// keep their values from Default.
func Load(path string) (*Theme, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := Default
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &t, nil
}

// face is the face text is measured with. Its metrics are scaled
// linearly to the requested size.
var face font.Face = basicfont.Face7x13

const faceSize = 13

// TextWidth returns the approximate width of s at the given font
// size.
func TextWidth(s string, size float64) float64 {
	adv := font.MeasureString(face, s)
	return float64(adv) / 64 * size / faceSize
}

// Truncate shortens s with an ellipsis so that it fits in width at
// the given font size. A width of 0 means no limit.
func Truncate(s string, size, width float64) string {
	if width <= 0 || TextWidth(s, size) <= width {
		return s
	}
	rs := []rune(s)
	for n := len(rs) - 1; n > 0; n-- {
		t := string(rs[:n]) + "…"
		if TextWidth(t, size) <= width {
			return t
		}
	}
	return "…"
}
