// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr implements the predicate and style expression language
// used by chart documents.
//
// The language is a small subset of JavaScript expressions:
//
//	datum.iteration == iteration_number
//	datum['comparison_name'] != 'probability_two_random_records_match'
//	abs(datum.value / 10) <= 1 & datum.value % 10 === 0
//	datum.comparison_name in ['first_name', 'surname']
//
// datum.f and datum['f'] refer to fields of the current record. Bare
// identifiers refer to parameters. The logical operators & and | are
// non-short-circuiting forms of && and ||.
package expr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aclements/mwplot/data"
)

// A Node is a node in a parsed expression.
type Node interface {
	String() string
	node()
}

// Literal is a constant.
type Literal struct {
	Val data.Value
}

// Field is a reference to a field of the current record.
type Field struct {
	Name string
}

// ParamRef is a reference to a named parameter.
type ParamRef struct {
	Name string
}

// Unary is a unary operation.
type Unary struct {
	Op Op
	X  Node
}

// Binary is a binary operation.
type Binary struct {
	Op   Op
	X, Y Node
}

// Call is a call of a built-in function.
type Call struct {
	Fn   Func
	Args []Node
}

// List is a list of literals. It may only appear as the right operand
// of "in" or as an argument to indexof.
type List struct {
	Elts []data.Value
}

// In tests whether X is identical to any element of Set.
type In struct {
	X   Node
	Set *List
}

func (*Literal) node()  {}
func (*Field) node()    {}
func (*ParamRef) node() {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Call) node()     {}
func (*List) node()     {}
func (*In) node()       {}

func (n *Literal) String() string { return formatLiteral(n.Val) }
func (n *Field) String() string   { return "datum." + n.Name }
func (n *ParamRef) String() string {
	return n.Name
}
func (n *Unary) String() string { return n.Op.String() + n.X.String() }
func (n *Binary) String() string {
	return "(" + n.X.String() + " " + n.Op.String() + " " + n.Y.String() + ")"
}
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Fn.String() + "(" + strings.Join(args, ", ") + ")"
}
func (n *List) String() string {
	elts := make([]string, len(n.Elts))
	for i, v := range n.Elts {
		elts[i] = formatLiteral(v)
	}
	return "[" + strings.Join(elts, ", ") + "]"
}
func (n *In) String() string { return "(" + n.X.String() + " in " + n.Set.String() + ")" }

func formatLiteral(v data.Value) string {
	if s, ok := v.Text(); ok {
		s = strings.ReplaceAll(s, `\`, `\\`)
		return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
	}
	return v.String()
}

// Op is an operator.
type Op int

const (
	OpEq       Op = iota // ==
	OpStrictEq           // ===
	OpNe                 // !=
	OpStrictNe           // !==
	OpLt                 // <
	OpLe                 // <=
	OpGt                 // >
	OpGe                 // >=
	OpAdd                // +
	OpSub                // -
	OpMul                // *
	OpDiv                // /
	OpMod                // %
	OpAndAnd             // &&
	OpOrOr               // ||
	OpAnd                // &
	OpOr                 // |
	OpNeg                // unary -
	OpNot                // unary !
)

var opNames = [...]string{
	OpEq: "==", OpStrictEq: "===", OpNe: "!=", OpStrictNe: "!==",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAndAnd: "&&", OpOrOr: "||", OpAnd: "&", OpOr: "|",
	OpNeg: "-", OpNot: "!",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// binaryOps gives the operator and JavaScript precedence of each
// binary operator token.
var binaryOps = map[string]struct {
	op   Op
	prec int
}{
	"||": {OpOrOr, 1},
	"&&": {OpAndAnd, 2},
	"|":  {OpOr, 3},
	"&":  {OpAnd, 4},
	"==": {OpEq, 5}, "!=": {OpNe, 5}, "===": {OpStrictEq, 5}, "!==": {OpStrictNe, 5},
	"<": {OpLt, 6}, "<=": {OpLe, 6}, ">": {OpGt, 6}, ">=": {OpGe, 6},
	"+": {OpAdd, 7}, "-": {OpSub, 7},
	"*": {OpMul, 8}, "/": {OpDiv, 8}, "%": {OpMod, 8},
}

// precIn is the precedence of the "in" operator.
const precIn = 6

// Func is a built-in function.
type Func int

const (
	FuncAbs Func = iota
	FuncCeil
	FuncFloor
	FuncRound
	FuncIsValid
	FuncIndexOf
)

var funcs = [...]struct {
	name  string
	nargs int
}{
	FuncAbs:     {"abs", 1},
	FuncCeil:    {"ceil", 1},
	FuncFloor:   {"floor", 1},
	FuncRound:   {"round", 1},
	FuncIsValid: {"isValid", 1},
	FuncIndexOf: {"indexof", 2},
}

func (f Func) String() string {
	if f >= 0 && int(f) < len(funcs) {
		return funcs[f].name
	}
	return fmt.Sprintf("Func(%d)", int(f))
}

func lookupFunc(name string) (Func, bool) {
	for i, f := range funcs {
		if f.name == name {
			return Func(i), true
		}
	}
	return 0, false
}

// Names returns the sorted, de-duplicated field and parameter names
// referenced by n.
func Names(n Node) (fields, params []string) {
	seenF, seenP := map[string]bool{}, map[string]bool{}
	var walk func(n Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Field:
			if !seenF[n.Name] {
				seenF[n.Name] = true
				fields = append(fields, n.Name)
			}
		case *ParamRef:
			if !seenP[n.Name] {
				seenP[n.Name] = true
				params = append(params, n.Name)
			}
		case *Unary:
			walk(n.X)
		case *Binary:
			walk(n.X)
			walk(n.Y)
		case *Call:
			for _, a := range n.Args {
				walk(a)
			}
		case *In:
			walk(n.X)
		}
	}
	walk(n)
	sort.Strings(fields)
	sort.Strings(params)
	return
}
