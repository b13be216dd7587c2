// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to represent parsed template
// trees.
//
// For example, the template source
//
//	@if ($.user) |user|
//	<div>{{ user.email }}</div>
//	@end
//
// is represented as an If node whose Then body contains a Text node and
// a Show node wrapping a Ref expression.
package ast

import (
	"strconv"
	"strings"
)

// Format is the initial content format of a template file, determined
// by its extension.
type Format int

const (
	FormatMarkup Format = iota
	FormatMarkdown
)

// String returns the name of the format.
func (f Format) String() string {
	if f == FormatMarkdown {
		return "markdown"
	}
	return "markup"
}

// Position is a position in a template file.
type Position struct {
	Line   int // line, starting from 1
	Column int // column in characters, starting from 1
}

// String returns line and column separated by a colon, for example
// "37:18".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Node is an element of a template tree.
type Node interface {
	Pos() Position
}

type position struct {
	pos Position
}

func (p position) Pos() Position { return p.pos }

// Tree is the parsed form of one template file.
type Tree struct {
	Path   string      // normalized template path
	Format Format      // initial format
	Args   []Parameter // declared @args parameters, nil if none
	Nodes  []Node      // top level nodes
}

// Parameter is a formal parameter declared with @args.
type Parameter struct {
	Name    string
	Type    string     // string, integer, float, boolean, object, array or any
	Default Expression // nil if the parameter is required
}

// Expression is a value-producing element: a reference or a literal.
type Expression interface {
	Node
	String() string
}

// Ref is a dot-path reference. A root reference ($.a.b or .a.b) has
// empty Name; otherwise Name is a bound identifier and Path descends
// from its value.
type Ref struct {
	position
	Name string
	Path []string
}

func NewRef(pos Position, name string, path []string) *Ref {
	return &Ref{position{pos}, name, path}
}

func (n *Ref) String() string {
	if n.Name == "" {
		if len(n.Path) == 0 {
			return "$"
		}
		return "$." + strings.Join(n.Path, ".")
	}
	if len(n.Path) == 0 {
		return n.Name
	}
	return n.Name + "." + strings.Join(n.Path, ".")
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	position
	Value string
}

func NewStringLit(pos Position, value string) *StringLit {
	return &StringLit{position{pos}, value}
}

func (n *StringLit) String() string { return strconv.Quote(n.Value) }

// IntLit is an integer literal.
type IntLit struct {
	position
	Value int64
}

func NewIntLit(pos Position, value int64) *IntLit {
	return &IntLit{position{pos}, value}
}

func (n *IntLit) String() string { return strconv.FormatInt(n.Value, 10) }

// FloatLit is a floating point literal.
type FloatLit struct {
	position
	Value float64
}

func NewFloatLit(pos Position, value float64) *FloatLit {
	return &FloatLit{position{pos}, value}
}

func (n *FloatLit) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// BoolLit is a boolean literal.
type BoolLit struct {
	position
	Value bool
}

func NewBoolLit(pos Position, value bool) *BoolLit {
	return &BoolLit{position{pos}, value}
}

func (n *BoolLit) String() string { return strconv.FormatBool(n.Value) }

// Text is literal markup emitted as is.
type Text struct {
	position
	Text string
}

func NewText(pos Position, text string) *Text {
	return &Text{position{pos}, text}
}

// Show interpolates the rendered form of an expression. Raw shows
// bypass output escaping.
type Show struct {
	position
	Expr Expression
	Raw  bool
}

func NewShow(pos Position, expr Expression, raw bool) *Show {
	return &Show{position{pos}, expr, raw}
}

// If is a conditional chain. Else holds either the terminal @else body
// or a single nested If representing @else if.
type If struct {
	position
	Condition Expression
	Binding   string // dereferenced value binding, "" if absent
	Then      []Node
	Else      []Node
}

func NewIf(pos Position, condition Expression, binding string, then, els []Node) *If {
	return &If{position{pos}, condition, binding, then, els}
}

// For iterates the elements of an expression.
type For struct {
	position
	Expr  Expression
	Item  string
	Index string // "" if no index binding
	Body  []Node
}

func NewFor(pos Position, expr Expression, item, index string, body []Node) *For {
	return &For{position{pos}, expr, item, index, body}
}

// Arg is one argument of a partial invocation. Positional arguments
// have empty Name.
type Arg struct {
	Name  string
	Value Expression
}

// Partial invokes a named template with bound arguments and optional
// captured slot bodies.
type Partial struct {
	position
	Name  string
	Args  []Arg
	Slots [][]Node
}

func NewPartial(pos Position, name string, args []Arg, slots [][]Node) *Partial {
	return &Partial{position{pos}, name, args, slots}
}

// Markdown is a verbatim region converted to HTML at render time.
type Markdown struct {
	position
	Source string
}

func NewMarkdown(pos Position, source string) *Markdown {
	return &Markdown{position{pos}, source}
}

// Raw is a verbatim output block whose content bypasses lexing.
type Raw struct {
	position
	Source string
}

func NewRaw(pos Position, source string) *Raw {
	return &Raw{position{pos}, source}
}

// Foreign is an opaque foreign code block handed to the configured
// foreign code emitter.
type Foreign struct {
	position
	Source string
}

func NewForeign(pos Position, source string) *Foreign {
	return &Foreign{position{pos}, source}
}
