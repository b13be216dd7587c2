// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/jetzig-framework/zmpl/ast"
)

// Error is a compile-time error: a syntax violation, an unmatched block
// terminator, an @args mismatch at a call site or an unresolvable
// partial name. It identifies the file and the position of the
// offending construct.
type Error interface {
	error
	Path() string
	Position() ast.Position
	Message() string
}

type syntaxError struct {
	path string
	pos  ast.Position
	msg  string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.path, e.pos, e.msg)
}

func (e *syntaxError) Path() string { return e.path }

func (e *syntaxError) Position() ast.Position { return e.pos }

func (e *syntaxError) Message() string { return e.msg }

func errorf(path string, pos ast.Position, format string, args ...interface{}) Error {
	return &syntaxError{path: path, pos: pos, msg: fmt.Sprintf(format, args...)}
}
