// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetzig-framework/zmpl/ast"
	"github.com/jetzig-framework/zmpl/data"
	"github.com/jetzig-framework/zmpl/internal/runtime"
)

// ForeignFunc renders one foreign code block against the render's data
// tree.
type ForeignFunc func(w io.Writer, d *data.Data) error

// ForeignEmitter compiles the source of a @go block into a render
// function. Emit is called once per block at compile time; an error
// aborts the build.
type ForeignEmitter interface {
	Emit(src string) (ForeignFunc, error)
}

// Emitter lowers parsed trees into render routines. Resolve maps a
// partial name, relative to the directory of the calling template, to
// its manifest key and declared parameters.
type Emitter struct {
	Resolve func(fromDir, name string) (key string, params []ast.Parameter, ok bool)
	Foreign ForeignEmitter
}

// Emit compiles tree into a routine keyed by the tree's path.
func (em *Emitter) Emit(tree *ast.Tree) (*runtime.Routine, error) {
	st := &emitState{em: em, path: tree.Path, dir: Dir(tree.Path)}
	body, err := st.emitNodes(tree.Nodes)
	if err != nil {
		return nil, err
	}
	return &runtime.Routine{Name: tree.Path, Body: chomp(body)}, nil
}

type emitState struct {
	em   *Emitter
	path string
	dir  string
	tmp  int // counter for synthesized index bindings
}

func (st *emitState) errorf(pos ast.Position, format string, args ...interface{}) Error {
	return errorf(st.path, pos, format, args...)
}

func (st *emitState) emitNodes(nodes []ast.Node) (runtime.NodeList, error) {
	var out runtime.NodeList
	for _, node := range nodes {
		n, err := st.emitNode(node)
		if err != nil {
			return nil, err
		}
		if t, ok := n.(*runtime.Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*runtime.Text); ok {
				prev.Text += t.Text
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func (st *emitState) emitNode(node ast.Node) (runtime.Node, error) {
	switch n := node.(type) {
	case *ast.Text:
		return runtime.NewText(n.Text), nil
	case *ast.Show:
		expr, err := st.emitExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return runtime.NewShow(expr, n.Raw), nil
	case *ast.If:
		return st.emitIf(n)
	case *ast.For:
		return st.emitFor(n)
	case *ast.Partial:
		return st.emitPartial(n)
	case *ast.Markdown:
		return runtime.NewMarkdown(n.Source), nil
	case *ast.Raw:
		return runtime.NewText(n.Source), nil
	case *ast.Foreign:
		var fn ForeignFunc
		if st.em.Foreign != nil {
			var err error
			fn, err = st.em.Foreign.Emit(n.Source)
			if err != nil {
				return nil, st.errorf(n.Pos(), "foreign code: %s", err)
			}
		}
		return runtime.NewForeign(n.Source, fn), nil
	}
	return nil, fmt.Errorf("%s: unexpected node %T", st.path, node)
}

func (st *emitState) emitIf(n *ast.If) (runtime.Node, error) {
	cond, err := st.emitExpr(n.Condition)
	if err != nil {
		return nil, err
	}
	then, err := st.emitNodes(n.Then)
	if err != nil {
		return nil, err
	}
	els, err := st.emitNodes(n.Else)
	if err != nil {
		return nil, err
	}
	return runtime.NewIf(cond, n.Binding, chomp(then), chomp(els)), nil
}

func (st *emitState) emitFor(n *ast.For) (runtime.Node, error) {
	expr, err := st.emitExpr(n.Expr)
	if err != nil {
		return nil, err
	}
	body, err := st.emitNodes(n.Body)
	if err != nil {
		return nil, err
	}
	index := n.Index
	if index == "" {
		// # is not valid in an identifier, so a synthesized name can
		// never collide with a user binding.
		index = fmt.Sprintf("#%d", st.tmp)
		st.tmp++
	}
	return runtime.NewFor(expr, n.Item, index, chomp(body)), nil
}

func (st *emitState) emitPartial(n *ast.Partial) (runtime.Node, error) {
	if st.em.Resolve == nil {
		return nil, st.errorf(n.Pos(), "partial %q: no resolver configured", n.Name)
	}
	key, params, ok := st.em.Resolve(st.dir, n.Name)
	if !ok {
		return nil, st.errorf(n.Pos(), "partial %q not found", n.Name)
	}
	args, err := st.emitCallArgs(n, key, params)
	if err != nil {
		return nil, err
	}
	var slots []runtime.NodeList
	for _, slot := range n.Slots {
		body, err := st.emitNodes(slot)
		if err != nil {
			return nil, err
		}
		slots = append(slots, chomp(body))
	}
	return runtime.NewPartial(key, args, slots), nil
}

// emitCallArgs checks a partial call against the target's declared
// parameters and produces the argument list in declared order, with
// defaults filled in.
func (st *emitState) emitCallArgs(n *ast.Partial, key string, params []ast.Parameter) ([]runtime.Arg, error) {
	byName := make(map[string]runtime.Expr, len(n.Args))
	positional := 0
	for i, arg := range n.Args {
		expr, err := st.emitExpr(arg.Value)
		if err != nil {
			return nil, err
		}
		name := arg.Name
		if name == "" {
			if positional < i {
				return nil, st.errorf(n.Pos(), "partial %q: positional argument after keyword argument", n.Name)
			}
			if i >= len(params) {
				return nil, st.errorf(n.Pos(), "partial %q takes %d arguments, got %d", n.Name, len(params), len(n.Args))
			}
			name = params[i].Name
			positional++
		}
		if _, dup := byName[name]; dup {
			return nil, st.errorf(n.Pos(), "partial %q: duplicate argument %q", n.Name, name)
		}
		known := false
		for _, p := range params {
			if p.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, st.errorf(n.Pos(), "partial %q has no parameter %q", n.Name, name)
		}
		byName[name] = expr
	}
	var args []runtime.Arg
	for _, p := range params {
		expr, ok := byName[p.Name]
		if !ok {
			if p.Default == nil {
				return nil, st.errorf(n.Pos(), "partial %q: missing argument %q", n.Name, p.Name)
			}
			var err error
			expr, err = st.emitExpr(p.Default)
			if err != nil {
				return nil, err
			}
		}
		args = append(args, runtime.Arg{Name: p.Name, Expr: expr})
	}
	return args, nil
}

func (st *emitState) emitExpr(expr ast.Expression) (runtime.Expr, error) {
	switch e := expr.(type) {
	case *ast.Ref:
		if e.Name == "" {
			return runtime.NewRootRef(runtime.JoinPath(e.Path)), nil
		}
		return runtime.NewVarRef(e.Name, runtime.JoinPath(e.Path)), nil
	case *ast.StringLit:
		return runtime.NewStringLit(e.Value), nil
	case *ast.IntLit:
		return runtime.NewIntLit(e.Value), nil
	case *ast.FloatLit:
		return runtime.NewFloatLit(e.Value), nil
	case *ast.BoolLit:
		return runtime.NewBoolLit(e.Value), nil
	}
	return nil, fmt.Errorf("%s: unexpected expression %T", st.path, expr)
}

// chomp reduces blank runs at the edges of a block body to a single
// newline, so blank lines around directives do not pad the output.
func chomp(body runtime.NodeList) runtime.NodeList {
	if len(body) == 0 {
		return body
	}
	if t, ok := body[0].(*runtime.Text); ok {
		for strings.HasPrefix(t.Text, "\n\n") {
			t.Text = t.Text[1:]
		}
	}
	if t, ok := body[len(body)-1].(*runtime.Text); ok {
		for strings.HasSuffix(t.Text, "\n\n") {
			t.Text = t.Text[:len(t.Text)-1]
		}
	}
	return body
}
