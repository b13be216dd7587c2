// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zmpl

import (
	"github.com/jetzig-framework/zmpl/ast"
	"github.com/jetzig-framework/zmpl/compiler"
)

// Position is a line and column in a template source file.
type Position = ast.Position

// BuildError is an error compiling a template file.
type BuildError struct {
	err compiler.Error
}

func (e *BuildError) Error() string { return e.err.Error() }

// Path returns the name of the file that failed to compile.
func (e *BuildError) Path() string { return e.err.Path() }

// Position returns the position of the offending construct.
func (e *BuildError) Position() Position { return e.err.Position() }

// Message returns the error message without the file position prefix.
func (e *BuildError) Message() string { return e.err.Message() }

func (e *BuildError) Unwrap() error { return e.err }

// wrapBuildError wraps compiler errors; other errors, such as file
// system failures, pass through unchanged.
func wrapBuildError(err error) error {
	if err == nil {
		return nil
	}
	if cerr, ok := err.(compiler.Error); ok {
		return &BuildError{err: cerr}
	}
	return err
}

// RenderError is an error rendering a template: a reference that
// traverses a scalar, an uniterable loop expression, a converter or
// writer failure.
type RenderError struct {
	Template string // manifest key of the failing template
	Err      error
}

func (e *RenderError) Error() string { return "render " + e.Template + ": " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }
