// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"strconv"
	"strings"

	"github.com/jetzig-framework/zmpl/data"
)

// result is an evaluated expression: the value and whether it is
// pre-escaped safe output.
type result struct {
	value *data.Value
	safe  bool
}

// Expr is a compiled expression. Eval resolves it against the state; a
// missing reference yields a nil value, not an error.
type Expr interface {
	Eval(s *State) (*data.Value, error)
	String() string
}

func evalResult(e Expr, s *State) (result, error) {
	if v, ok := e.(*VarRef); ok {
		return v.eval(s)
	}
	value, err := e.Eval(s)
	return result{value: value}, err
}

// RootRef resolves a dot path against the data root. An empty path is
// the root itself.
type RootRef struct {
	Path string
}

func NewRootRef(path string) *RootRef { return &RootRef{Path: path} }

func (e *RootRef) Eval(s *State) (*data.Value, error) {
	v, err := s.data.Ref(e.Path)
	if err != nil {
		return nil, s.errorf("%s", err)
	}
	return v, nil
}

func (e *RootRef) String() string {
	if e.Path == "" {
		return "$"
	}
	return "$." + e.Path
}

// VarRef resolves a bound name from the scope, optionally descending a
// dot path under its value. An unbound name resolves to a missing
// value. Descending under a safe binding keeps the safe mark, so slot
// elements stay unescaped.
type VarRef struct {
	Name string
	Path string
}

func NewVarRef(name, path string) *VarRef { return &VarRef{Name: name, Path: path} }

func (e *VarRef) eval(s *State) (result, error) {
	en, ok := s.lookup(e.Name)
	if !ok {
		return result{}, nil
	}
	if e.Path == "" {
		return result{value: en.value, safe: en.safe}, nil
	}
	v, err := data.ResolveRef(en.value, e.Path)
	if err != nil {
		return result{}, s.errorf("%s", err)
	}
	return result{value: v, safe: en.safe}, nil
}

func (e *VarRef) Eval(s *State) (*data.Value, error) {
	r, err := e.eval(s)
	return r.value, err
}

func (e *VarRef) String() string {
	if e.Path == "" {
		return e.Name
	}
	return e.Name + "." + e.Path
}

// StringLit is a constant string expression.
type StringLit struct {
	Value string
}

func NewStringLit(value string) *StringLit { return &StringLit{Value: value} }

func (e *StringLit) Eval(s *State) (*data.Value, error) {
	return s.data.String(e.Value), nil
}

func (e *StringLit) String() string { return strconv.Quote(e.Value) }

// IntLit is a constant integer expression.
type IntLit struct {
	Value int64
}

func NewIntLit(value int64) *IntLit { return &IntLit{Value: value} }

func (e *IntLit) Eval(s *State) (*data.Value, error) {
	return s.data.Integer(e.Value), nil
}

func (e *IntLit) String() string { return strconv.FormatInt(e.Value, 10) }

// FloatLit is a constant floating point expression.
type FloatLit struct {
	Value float64
}

func NewFloatLit(value float64) *FloatLit { return &FloatLit{Value: value} }

func (e *FloatLit) Eval(s *State) (*data.Value, error) {
	return s.data.Float(e.Value), nil
}

func (e *FloatLit) String() string { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

// BoolLit is a constant boolean expression.
type BoolLit struct {
	Value bool
}

func NewBoolLit(value bool) *BoolLit { return &BoolLit{Value: value} }

func (e *BoolLit) Eval(s *State) (*data.Value, error) {
	return s.data.Boolean(e.Value), nil
}

func (e *BoolLit) String() string { return strconv.FormatBool(e.Value) }

// JoinPath flattens reference segments into the dot form used by
// RootRef and VarRef.
func JoinPath(segments []string) string {
	return strings.Join(segments, ".")
}
