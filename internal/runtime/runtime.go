// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime executes compiled render routines against a data
// tree. A routine is a tree of nodes built by the compiler's emitter;
// rendering walks it straight through, synchronously, with no I/O of
// its own: markdown conversion and output escaping are collaborator
// functions supplied through Env.
package runtime

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jetzig-framework/zmpl/data"
)

// Env holds the collaborators of a render: the manifest lookup, the
// markdown converter and the output sanitizer. A nil Escape disables
// output escaping. A nil Markdown makes markdown regions a render
// error.
type Env struct {
	Lookup   func(name string) (*Routine, bool)
	Markdown func(src []byte, out io.Writer) error
	Escape   func(s string) string
}

// Routine is the compiled render routine of one template.
type Routine struct {
	Name string // manifest key
	Body NodeList
}

// Disassemble returns the canonical textual form of the routine. The
// same source always compiles to the same text.
func (r *Routine) Disassemble() string {
	return r.Body.String()
}

// Binding is a named value injected into the root scope of a render,
// such as the reserved content binding of a layout. Safe bindings
// bypass output escaping when shown.
type Binding struct {
	Name  string
	Value *data.Value
	Safe  bool
}

type entry struct {
	value *data.Value
	safe  bool
}

// State is the mutable state of one render call. It is not shared
// between renders.
type State struct {
	env    *Env
	data   *data.Data
	name   string
	scopes []map[string]entry
}

// Render executes the routine against d and writes the output to w.
// Extra bindings, if any, populate the root scope.
func Render(env *Env, r *Routine, d *data.Data, bindings []Binding, w io.Writer) error {
	s := &State{env: env, data: d, name: r.Name}
	if len(bindings) > 0 {
		frame := make(map[string]entry, len(bindings))
		for _, b := range bindings {
			frame[b.Name] = entry{value: b.Value, safe: b.Safe}
		}
		s.scopes = append(s.scopes, frame)
	}
	return r.Body.Render(s, w)
}

// Data returns the data tree of the render.
func (s *State) Data() *data.Data { return s.data }

// Binding returns the value bound to name in the innermost scope that
// declares it.
func (s *State) Binding(name string) (*data.Value, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if e, ok := s.scopes[i][name]; ok {
			return e.value, true
		}
	}
	return nil, false
}

func (s *State) lookup(name string) (entry, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if e, ok := s.scopes[i][name]; ok {
			return e, true
		}
	}
	return entry{}, false
}

func (s *State) push(frame map[string]entry) {
	s.scopes = append(s.scopes, frame)
}

func (s *State) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// errorf builds a render error naming the routine being rendered.
func (s *State) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", s.name, fmt.Sprintf(format, args...))
}

// Node is an element of a compiled routine. String returns the node's
// canonical disassembly text.
type Node interface {
	Render(s *State, w io.Writer) error
	String() string
}

// NodeList is a sequence of nodes rendered in order.
type NodeList []Node

func (l NodeList) Render(s *State, w io.Writer) error {
	for _, n := range l {
		if err := n.Render(s, w); err != nil {
			return err
		}
	}
	return nil
}

func (l NodeList) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	for _, n := range l {
		b.WriteString("\n\t")
		b.WriteString(indent(n.String()))
	}
	if len(l) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]")
	return b.String()
}

func indent(s string) string {
	var b bytes.Buffer
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] == '\n' {
			b.WriteByte('\t')
		}
	}
	return b.String()
}
