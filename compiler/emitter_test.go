// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strings"
	"testing"

	"github.com/jetzig-framework/zmpl/ast"
)

// cardParams is the signature of the partials/card target used by the
// emitter tests: card(name: string, count: integer = 0).
var cardParams = []ast.Parameter{
	{Name: "name", Type: "string"},
	{Name: "count", Type: "integer", Default: ast.NewIntLit(ast.Position{}, 0)},
}

func testEmitter() *Emitter {
	return &Emitter{
		Resolve: func(fromDir, name string) (string, []ast.Parameter, bool) {
			if name == "card" {
				return "partials/card", cardParams, true
			}
			return "", nil, false
		},
	}
}

func emitSource(t *testing.T, src string) (string, error) {
	t.Helper()
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	routine, err := testEmitter().Emit(tree)
	if err != nil {
		return "", err
	}
	return routine.Disassemble(), nil
}

func TestEmitDeterminism(t *testing.T) {
	src := "@for ($.items) |item| {\n<li>{{ item }}</li>\n}\n@for ($.other) |o| {\n{{ o }}\n}\n"
	first, err := emitSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	second, err := emitSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if first != second {
		t.Errorf("disassembly is not deterministic:\n%s\n---\n%s", first, second)
	}
}

func TestEmitSynthesizedIndex(t *testing.T) {
	text, err := emitSource(t, "@for ($.items) |item| {\n{{ item }}\n}\n@for ($.other) |o| {\nx\n}\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, "|item, #0|") {
		t.Errorf("first loop should bind index #0:\n%s", text)
	}
	if !strings.Contains(text, "|o, #1|") {
		t.Errorf("second loop should bind index #1:\n%s", text)
	}
}

func TestEmitSynthesizedIndexNoShadow(t *testing.T) {
	// An item binding spelled like a synthesized name must keep its
	// item value; the synthesized index cannot be a valid identifier.
	text, err := emitSource(t, "@for ($.items) |t0| {\n{{ t0 }}\n}\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, "|t0, #0|") {
		t.Errorf("item binding t0 should not be shadowed by the index:\n%s", text)
	}
}

func TestEmitPartialDefaults(t *testing.T) {
	text, err := emitSource(t, "@partial card(name: \"x\")\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, `partial "partials/card" (name: "x", count: 0)`) {
		t.Errorf("defaults not applied in declared order:\n%s", text)
	}
}

func TestEmitPartialPositional(t *testing.T) {
	text, err := emitSource(t, "@partial card(\"x\", 3)\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, `partial "partials/card" (name: "x", count: 3)`) {
		t.Errorf("positional arguments not bound in declared order:\n%s", text)
	}
}

func TestEmitChomp(t *testing.T) {
	text, err := emitSource(t, "@if ($.x)\n\nA\n\n@end\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, `text "\nA\n"`) {
		t.Errorf("blank runs at block edges should chomp to one newline:\n%s", text)
	}
}

func TestEmitRawBlock(t *testing.T) {
	text, err := emitSource(t, "@html {\n<b>{{ not a show }}</b>\n}\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, `text "<b>{{ not a show }}</b>\n"`) {
		t.Errorf("@html content should pass through unlexed:\n%s", text)
	}
}

func TestEmitForeignVerbatim(t *testing.T) {
	text, err := emitSource(t, "@go {\nfmt.Println(1)\n}\n")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(text, `foreign "fmt.Println(1)\n"`) {
		t.Errorf("@go content should compile to a foreign node:\n%s", text)
	}
}

var emitErrorTests = []struct {
	src string
	msg string
}{
	{"@partial missing\n", `partial "missing" not found`},
	{"@partial card(title: \"x\")\n", `partial "card" has no parameter "title"`},
	{"@partial card(name: \"x\", name: \"y\")\n", "duplicate argument"},
	{"@partial card\n", `missing argument "name"`},
	{"@partial card(\"a\", 1, 2)\n", "takes 2 arguments, got 3"},
	{"@partial card(count: 1, \"x\")\n", "positional argument after keyword argument"},
}

func TestEmitErrors(t *testing.T) {
	for _, tt := range emitErrorTests {
		_, err := emitSource(t, tt.src)
		if err == nil {
			t.Errorf("source %q: expected error %q, got none", tt.src, tt.msg)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("source %q: got error %q, want %q", tt.src, err, tt.msg)
		}
	}
}
