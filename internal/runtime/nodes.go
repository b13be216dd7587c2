// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jetzig-framework/zmpl/data"
)

// Text writes a literal string.
type Text struct {
	Text string
}

func NewText(text string) *Text { return &Text{Text: text} }

func (n *Text) Render(s *State, w io.Writer) error {
	_, err := io.WriteString(w, n.Text)
	return err
}

func (n *Text) String() string { return "text " + strconv.Quote(n.Text) }

// Show writes the rendered form of an expression. Missing values write
// nothing. Escaping applies unless the show is raw, the value is a safe
// binding, or the environment has no sanitizer.
type Show struct {
	Expr Expr
	Raw  bool
}

func NewShow(expr Expr, raw bool) *Show { return &Show{Expr: expr, Raw: raw} }

func (n *Show) Render(s *State, w io.Writer) error {
	r, err := evalResult(n.Expr, s)
	if err != nil {
		return err
	}
	if r.value == nil {
		return nil
	}
	text := r.value.String()
	if !n.Raw && !r.safe && s.env.Escape != nil {
		text = s.env.Escape(text)
	}
	_, err = io.WriteString(w, text)
	return err
}

func (n *Show) String() string {
	if n.Raw {
		return "show raw " + n.Expr.String()
	}
	return "show esc " + n.Expr.String()
}

// If renders the first branch whose condition holds. A binding form
// takes the branch when the condition value is present and non-null,
// and the branch body sees the value bound to the name; the plain form
// tests truthiness.
type If struct {
	Cond    Expr
	Binding string
	Then    NodeList
	Else    NodeList
}

func NewIf(cond Expr, binding string, then, els NodeList) *If {
	return &If{Cond: cond, Binding: binding, Then: then, Else: els}
}

func (n *If) Render(s *State, w io.Writer) error {
	value, err := n.Cond.Eval(s)
	if err != nil {
		return err
	}
	taken := false
	if n.Binding != "" {
		taken = !value.IsNull()
	} else {
		taken = value.Truthy()
	}
	if taken {
		frame := map[string]entry{}
		if n.Binding != "" {
			frame[n.Binding] = entry{value: value}
		}
		s.push(frame)
		err = n.Then.Render(s, w)
		s.pop()
		return err
	}
	return n.Else.Render(s, w)
}

func (n *If) String() string {
	var b strings.Builder
	b.WriteString("if ")
	b.WriteString(n.Cond.String())
	if n.Binding != "" {
		b.WriteString(" |" + n.Binding + "|")
	}
	b.WriteString(" ")
	b.WriteString(n.Then.String())
	if len(n.Else) > 0 {
		b.WriteString(" else ")
		b.WriteString(n.Else.String())
	}
	return b.String()
}

// For iterates an array's elements, or an object's values in key
// order. A null or missing expression iterates zero times.
type For struct {
	Expr  Expr
	Item  string
	Index string
	Body  NodeList
}

func NewFor(expr Expr, item, index string, body NodeList) *For {
	return &For{Expr: expr, Item: item, Index: index, Body: body}
}

func (n *For) Render(s *State, w io.Writer) error {
	r, err := evalResult(n.Expr, s)
	if err != nil {
		return err
	}
	value := r.value
	render := func(i int, item *data.Value) error {
		frame := map[string]entry{
			n.Item:  {value: item, safe: r.safe},
			n.Index: {value: s.data.Integer(int64(i))},
		}
		s.push(frame)
		err := n.Body.Render(s, w)
		s.pop()
		return err
	}
	if a := value.Array(); a != nil {
		for i := 0; i < a.Len(); i++ {
			if err := render(i, a.At(i)); err != nil {
				return err
			}
		}
		return nil
	}
	if o := value.Object(); o != nil {
		for i, k := range o.Keys() {
			if err := render(i, o.Get(k)); err != nil {
				return err
			}
		}
		return nil
	}
	if value.IsNull() {
		return nil
	}
	return s.errorf("cannot iterate %s value %s", value.Kind(), n.Expr)
}

func (n *For) String() string {
	return fmt.Sprintf("for %s |%s, %s| %s", n.Expr, n.Item, n.Index, n.Body)
}

// Arg is one resolved argument of a partial call, in the target's
// declared parameter order.
type Arg struct {
	Name string
	Expr Expr
}

// Partial renders slot bodies to strings, then invokes the target
// routine with the arguments bound by name and the slots exposed as a
// safe array named "slots".
type Partial struct {
	Target string // resolved manifest key
	Args   []Arg
	Slots  []NodeList
}

func NewPartial(target string, args []Arg, slots []NodeList) *Partial {
	return &Partial{Target: target, Args: args, Slots: slots}
}

func (n *Partial) Render(s *State, w io.Writer) error {
	target, ok := s.env.Lookup(n.Target)
	if !ok {
		return s.errorf("partial %q is not in the manifest", n.Target)
	}
	frame := make(map[string]entry, len(n.Args)+1)
	for _, arg := range n.Args {
		value, err := arg.Expr.Eval(s)
		if err != nil {
			return err
		}
		frame[arg.Name] = entry{value: value}
	}
	slots := s.data.Array()
	for _, slot := range n.Slots {
		var buf bytes.Buffer
		if err := slot.Render(s, &buf); err != nil {
			return err
		}
		slots.Array().Append(s.data.String(strings.TrimSuffix(buf.String(), "\n")))
	}
	frame["slots"] = entry{value: slots, safe: true}
	child := &State{env: s.env, data: s.data, name: target.Name}
	child.push(frame)
	return target.Body.Render(child, w)
}

func (n *Partial) String() string {
	var b strings.Builder
	b.WriteString("partial " + strconv.Quote(n.Target) + " (")
	for i, arg := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name + ": " + arg.Expr.String())
	}
	b.WriteString(")")
	for _, slot := range n.Slots {
		b.WriteString(" slot ")
		b.WriteString(slot.String())
	}
	return b.String()
}

// Markdown converts a verbatim region through the environment's
// converter and writes the result unescaped.
type Markdown struct {
	Source string
}

func NewMarkdown(source string) *Markdown { return &Markdown{Source: source} }

func (n *Markdown) Render(s *State, w io.Writer) error {
	if s.env.Markdown == nil {
		return s.errorf("no markdown converter configured")
	}
	if err := s.env.Markdown([]byte(n.Source), w); err != nil {
		return s.errorf("markdown: %s", err)
	}
	return nil
}

func (n *Markdown) String() string { return "markdown " + strconv.Quote(n.Source) }

// Foreign is an opaque foreign code block. Fn is supplied by the
// foreign code emitter configured at compile time; a nil Fn writes the
// source verbatim.
type Foreign struct {
	Source string
	Fn     func(w io.Writer, d *data.Data) error
}

func NewForeign(source string, fn func(w io.Writer, d *data.Data) error) *Foreign {
	return &Foreign{Source: source, Fn: fn}
}

func (n *Foreign) Render(s *State, w io.Writer) error {
	if n.Fn == nil {
		_, err := io.WriteString(w, n.Source)
		return err
	}
	if err := n.Fn(w, s.data); err != nil {
		return s.errorf("foreign code: %s", err)
	}
	return nil
}

func (n *Foreign) String() string { return "foreign " + strconv.Quote(n.Source) }
