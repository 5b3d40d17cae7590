// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package data holds the scalar values and records that charts are
// drawn from.
package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind is the kind of a Value.
type Kind int

const (
	Null Kind = iota
	Number
	String
	Bool
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Number:
		return "number"
	case String:
		return "string"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a scalar field value. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// NullValue is the null Value.
var NullValue Value

// Num returns a number Value.
func Num(x float64) Value {
	return Value{kind: Number, num: x}
}

// Str returns a string Value.
func Str(s string) Value {
	return Value{kind: String, str: s}
}

// Boolean returns a bool Value.
func Boolean(b bool) Value {
	if b {
		return Value{kind: Bool, num: 1}
	}
	return Value{kind: Bool}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

// Float returns v's numeric value. ok is false if v is not a number.
func (v Value) Float() (x float64, ok bool) {
	if v.kind != Number {
		return math.NaN(), false
	}
	return v.num, true
}

// Text returns v's string value. ok is false if v is not a string.
func (v Value) Text() (s string, ok bool) {
	if v.kind != String {
		return "", false
	}
	return v.str, true
}

// Truthy reports whether v is true under JavaScript-like rules: null,
// false, 0, NaN and "" are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case Number:
		return v.num != 0 && !math.IsNaN(v.num)
	case String:
		return v.str != ""
	case Bool:
		return v.num != 0
	}
	return false
}

// Identical reports whether v and w have the same kind and value.
// NaN is not identical to itself.
func (v Value) Identical(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case String:
		return v.str == w.str
	}
	return v.num == w.num
}

// Equal reports whether v and w are loosely equal. Values of the same
// kind compare as with Identical. A number and a string are equal if
// the string parses as that number. A bool compares as 0 or 1.
func (v Value) Equal(w Value) bool {
	if v.kind == w.kind {
		return v.Identical(w)
	}
	if v.kind == Null || w.kind == Null {
		return false
	}
	x, ok1 := v.numeric()
	y, ok2 := w.numeric()
	return ok1 && ok2 && x == y
}

func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case Number, Bool:
		return v.num, true
	case String:
		x, err := strconv.ParseFloat(v.str, 64)
		return x, err == nil
	}
	return 0, false
}

// String formats v for display. Null formats as "null".
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case String:
		return v.str
	case Bool:
		return strconv.FormatBool(v.num != 0)
	}
	return "null"
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Number:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case String:
		return json.Marshal(v.str)
	case Bool:
		return json.Marshal(v.num != 0)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	switch b[0] {
	case 'n':
		*v = NullValue
		return nil
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		*v = Boolean(x)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Str(s)
		return nil
	case '[', '{':
		return fmt.Errorf("want scalar, got %.20s", b)
	}
	var x float64
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	*v = Num(x)
	return nil
}

// FromInterface converts a decoded JSON or YAML scalar to a Value.
func FromInterface(x interface{}) (Value, error) {
	switch x := x.(type) {
	case nil:
		return NullValue, nil
	case Value:
		return x, nil
	case bool:
		return Boolean(x), nil
	case string:
		return Str(x), nil
	case float64:
		return Num(x), nil
	case float32:
		return Num(float64(x)), nil
	case int:
		return Num(float64(x)), nil
	case int64:
		return Num(float64(x)), nil
	case uint64:
		return Num(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return NullValue, err
		}
		return Num(f), nil
	}
	return NullValue, fmt.Errorf("want scalar, got %T", x)
}
