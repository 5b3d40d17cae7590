// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aclements/mwplot/data"
)

// numberFormat matches the subset of d3 number formats supported by
// formatNumber: an optional thousands separator, an optional
// precision and an optional type.
var numberFormat = regexp.MustCompile(`^(,)?(?:\.([0-9]+))?([fd%]?)$`)

// formatValue formats v for display with the d3-style number format
// format. Non-numbers ignore format.
func formatValue(v data.Value, format string) string {
	x, ok := v.Float()
	if !ok || format == "" {
		return v.String()
	}
	return formatNumber(x, format)
}

// formatNumber formats x with a d3-style format such as ".4f" or
// ",.4f". Unsupported formats fall back to the shortest
// representation of x.
func formatNumber(x float64, format string) string {
	m := numberFormat.FindStringSubmatch(format)
	if m == nil {
		Warning.Printf("unsupported number format %q", format)
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	group, typ := m[1] == ",", m[3]
	prec := -1
	if m[2] != "" {
		prec, _ = strconv.Atoi(m[2])
	}

	suffix := ""
	switch typ {
	case "":
		if prec >= 0 {
			// Precision counts significant digits.
			return strconv.FormatFloat(x, 'g', max(prec, 1), 64)
		}
		if group {
			return humanize.Commaf(x)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case "d":
		prec = 0
	case "%":
		x *= 100
		suffix = "%"
	}
	if prec < 0 {
		prec = 6
	}
	// humanize supports at most 9 decimal places.
	prec = min(prec, 9)

	layout := "#"
	if group {
		layout = "#,###"
	}
	layout += "." + strings.Repeat("#", prec)
	return humanize.FormatFloat(layout, x) + suffix
}
