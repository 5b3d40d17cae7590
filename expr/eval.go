// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"fmt"
	"math"
	"strings"

	"github.com/aclements/mwplot/data"
)

// Params supplies parameter values to an expression.
type Params interface {
	Param(name string) (data.Value, bool)
}

// Env is the environment an expression is evaluated in.
type Env struct {
	// Datum is the current record.
	Datum data.Record

	// Params supplies the values of parameter references. It may
	// be nil if the expression references no parameters.
	Params Params
}

// EvalError is returned when an expression cannot be evaluated, such
// as for a missing field or an operand of the wrong type.
type EvalError struct {
	Node Node
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %s: %s", e.Node, e.Msg)
}

func evalErr(n Node, format string, a ...interface{}) error {
	return &EvalError{n, fmt.Sprintf(format, a...)}
}

// Test evaluates n in env and reports whether the result is truthy.
func Test(n Node, env Env) (bool, error) {
	v, err := Eval(n, env)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// Eval evaluates n in env.
func Eval(n Node, env Env) (data.Value, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Val, nil

	case *Field:
		v, ok := env.Datum[n.Name]
		if !ok {
			return data.NullValue, evalErr(n, "record has no field %q", n.Name)
		}
		return v, nil

	case *ParamRef:
		if env.Params != nil {
			if v, ok := env.Params.Param(n.Name); ok {
				return v, nil
			}
		}
		return data.NullValue, evalErr(n, "undefined parameter %s", n.Name)

	case *Unary:
		x, err := Eval(n.X, env)
		if err != nil {
			return x, err
		}
		switch n.Op {
		case OpNeg:
			xf, ok := x.Float()
			if !ok {
				return data.NullValue, evalErr(n, "operand of - is %s, not number", x.Kind())
			}
			return data.Num(-xf), nil
		case OpNot:
			return data.Boolean(!x.Truthy()), nil
		}

	case *Binary:
		return evalBinary(n, env)

	case *Call:
		return evalCall(n, env)

	case *In:
		x, err := Eval(n.X, env)
		if err != nil {
			return x, err
		}
		for _, elt := range n.Set.Elts {
			if x.Identical(elt) {
				return data.Boolean(true), nil
			}
		}
		return data.Boolean(false), nil

	case *List:
		return data.NullValue, evalErr(n, "list used as a value")
	}
	return data.NullValue, evalErr(n, "unsupported expression")
}

func evalBinary(n *Binary, env Env) (data.Value, error) {
	x, err := Eval(n.X, env)
	if err != nil {
		return x, err
	}
	// && and || short-circuit.
	switch n.Op {
	case OpAndAnd:
		if !x.Truthy() {
			return data.Boolean(false), nil
		}
	case OpOrOr:
		if x.Truthy() {
			return data.Boolean(true), nil
		}
	}
	y, err := Eval(n.Y, env)
	if err != nil {
		return y, err
	}

	switch n.Op {
	case OpAndAnd, OpOrOr:
		return data.Boolean(y.Truthy()), nil
	case OpAnd:
		return data.Boolean(x.Truthy() && y.Truthy()), nil
	case OpOr:
		return data.Boolean(x.Truthy() || y.Truthy()), nil
	case OpEq:
		return data.Boolean(x.Equal(y)), nil
	case OpNe:
		return data.Boolean(!x.Equal(y)), nil
	case OpStrictEq:
		return data.Boolean(x.Identical(y)), nil
	case OpStrictNe:
		return data.Boolean(!x.Identical(y)), nil

	case OpLt, OpLe, OpGt, OpGe:
		var c int
		if xs, ok := x.Text(); ok {
			ys, ok := y.Text()
			if !ok {
				return data.NullValue, evalErr(n, "cannot compare string and %s", y.Kind())
			}
			c = strings.Compare(xs, ys)
		} else {
			xf, yf, err := numbers(n, x, y)
			if err != nil {
				return data.NullValue, err
			}
			if math.IsNaN(xf) || math.IsNaN(yf) {
				return data.Boolean(false), nil
			}
			switch {
			case xf < yf:
				c = -1
			case xf > yf:
				c = 1
			}
		}
		switch n.Op {
		case OpLt:
			return data.Boolean(c < 0), nil
		case OpLe:
			return data.Boolean(c <= 0), nil
		case OpGt:
			return data.Boolean(c > 0), nil
		}
		return data.Boolean(c >= 0), nil

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		xf, yf, err := numbers(n, x, y)
		if err != nil {
			return data.NullValue, err
		}
		switch n.Op {
		case OpAdd:
			return data.Num(xf + yf), nil
		case OpSub:
			return data.Num(xf - yf), nil
		case OpMul:
			return data.Num(xf * yf), nil
		case OpDiv:
			return data.Num(xf / yf), nil
		}
		return data.Num(math.Mod(xf, yf)), nil
	}
	return data.NullValue, evalErr(n, "unsupported operator %s", n.Op)
}

// numbers returns x and y as numbers or an EvalError if either is not
// a number.
func numbers(n *Binary, x, y data.Value) (float64, float64, error) {
	xf, ok1 := x.Float()
	yf, ok2 := y.Float()
	if !ok1 || !ok2 {
		return 0, 0, evalErr(n, "operands of %s are %s and %s, not numbers", n.Op, x.Kind(), y.Kind())
	}
	return xf, yf, nil
}

func evalCall(n *Call, env Env) (data.Value, error) {
	if n.Fn == FuncIndexOf {
		return evalIndexOf(n, env)
	}

	x, err := Eval(n.Args[0], env)
	if err != nil {
		return x, err
	}
	if n.Fn == FuncIsValid {
		xf, isNum := x.Float()
		return data.Boolean(!x.IsNull() && !(isNum && math.IsNaN(xf))), nil
	}
	xf, ok := x.Float()
	if !ok {
		return data.NullValue, evalErr(n, "argument is %s, not number", x.Kind())
	}
	switch n.Fn {
	case FuncAbs:
		return data.Num(math.Abs(xf)), nil
	case FuncCeil:
		return data.Num(math.Ceil(xf)), nil
	case FuncFloor:
		return data.Num(math.Floor(xf)), nil
	case FuncRound:
		// JavaScript rounds half-way cases toward +Inf.
		return data.Num(math.Floor(xf + 0.5)), nil
	}
	return data.NullValue, evalErr(n, "unsupported function")
}

func evalIndexOf(n *Call, env Env) (data.Value, error) {
	y, err := Eval(n.Args[1], env)
	if err != nil {
		return y, err
	}
	if list, ok := n.Args[0].(*List); ok {
		for i, elt := range list.Elts {
			if elt.Identical(y) {
				return data.Num(float64(i)), nil
			}
		}
		return data.Num(-1), nil
	}
	x, err := Eval(n.Args[0], env)
	if err != nil {
		return x, err
	}
	xs, ok1 := x.Text()
	ys, ok2 := y.Text()
	if !ok1 || !ok2 {
		return data.NullValue, evalErr(n, "arguments are %s and %s, not strings", x.Kind(), y.Kind())
	}
	return data.Num(float64(strings.Index(xs, ys))), nil
}
