// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strings"
	"testing"

	"github.com/jetzig-framework/zmpl/ast"
)

func TestParseArgs(t *testing.T) {
	src := "@args name: string, count: integer = 0\nHi {{ name }}\n"
	tree, err := Parse("partials/greet.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if tree.Path != "partials/greet" {
		t.Errorf("path: got %q, want %q", tree.Path, "partials/greet")
	}
	if len(tree.Args) != 2 {
		t.Fatalf("got %d parameters, want 2", len(tree.Args))
	}
	if p := tree.Args[0]; p.Name != "name" || p.Type != "string" || p.Default != nil {
		t.Errorf("parameter 0: got %+v", p)
	}
	p := tree.Args[1]
	if p.Name != "count" || p.Type != "integer" {
		t.Errorf("parameter 1: got %+v", p)
	}
	lit, ok := p.Default.(*ast.IntLit)
	if !ok || lit.Value != 0 {
		t.Errorf("parameter 1 default: got %#v, want 0", p.Default)
	}
	if len(tree.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(tree.Nodes))
	}
	show, ok := tree.Nodes[1].(*ast.Show)
	if !ok {
		t.Fatalf("node 1: got %T, want *ast.Show", tree.Nodes[1])
	}
	ref, ok := show.Expr.(*ast.Ref)
	if !ok || ref.Name != "name" || len(ref.Path) != 0 {
		t.Errorf("show expression: got %#v", show.Expr)
	}
}

func TestParseIfChain(t *testing.T) {
	src := "@if ($.a)\nA\n@else if ($.b) |b|\nB\n@else\nC\n@end\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	first, ok := tree.Nodes[0].(*ast.If)
	if !ok {
		t.Fatalf("node 0: got %T, want *ast.If", tree.Nodes[0])
	}
	if first.Binding != "" {
		t.Errorf("first binding: got %q, want none", first.Binding)
	}
	if ref := first.Condition.(*ast.Ref); ref.Name != "" || strings.Join(ref.Path, ".") != "a" {
		t.Errorf("first condition: got %s", first.Condition)
	}
	if len(first.Else) != 1 {
		t.Fatalf("first else: got %d nodes, want a nested if", len(first.Else))
	}
	second, ok := first.Else[0].(*ast.If)
	if !ok {
		t.Fatalf("nested else if: got %T", first.Else[0])
	}
	if second.Binding != "b" {
		t.Errorf("second binding: got %q, want %q", second.Binding, "b")
	}
	if len(second.Else) != 1 {
		t.Fatalf("second else: got %d nodes", len(second.Else))
	}
	if text, ok := second.Else[0].(*ast.Text); !ok || text.Text != "C\n" {
		t.Errorf("else body: got %#v", second.Else[0])
	}
}

func TestParseFor(t *testing.T) {
	src := "@for ($.items) |item, i| {\n{{ item }}\n}\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	loop, ok := tree.Nodes[0].(*ast.For)
	if !ok {
		t.Fatalf("node 0: got %T, want *ast.For", tree.Nodes[0])
	}
	if loop.Item != "item" || loop.Index != "i" {
		t.Errorf("bindings: got %q, %q", loop.Item, loop.Index)
	}
	if len(loop.Body) != 2 {
		t.Fatalf("body: got %d nodes, want 2", len(loop.Body))
	}
}

func TestParsePartialInline(t *testing.T) {
	src := "@partial users/card(\"Hi\", count: 3) { <b>A</b> }{ B }\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	partial, ok := tree.Nodes[0].(*ast.Partial)
	if !ok {
		t.Fatalf("node 0: got %T, want *ast.Partial", tree.Nodes[0])
	}
	if partial.Name != "users/card" {
		t.Errorf("name: got %q", partial.Name)
	}
	if len(partial.Args) != 2 {
		t.Fatalf("arguments: got %d, want 2", len(partial.Args))
	}
	if partial.Args[0].Name != "" {
		t.Errorf("argument 0 should be positional, got name %q", partial.Args[0].Name)
	}
	if lit, ok := partial.Args[0].Value.(*ast.StringLit); !ok || lit.Value != "Hi" {
		t.Errorf("argument 0: got %#v", partial.Args[0].Value)
	}
	if partial.Args[1].Name != "count" {
		t.Errorf("argument 1: got name %q, want count", partial.Args[1].Name)
	}
	if len(partial.Slots) != 2 {
		t.Fatalf("slots: got %d, want 2", len(partial.Slots))
	}
	if text, ok := partial.Slots[0][0].(*ast.Text); !ok || text.Text != "<b>A</b>" {
		t.Errorf("slot 0: got %#v", partial.Slots[0][0])
	}
}

func TestParsePartialSlotBlocks(t *testing.T) {
	src := "@partial card {\nA\n}{\nB\n}\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	partial := tree.Nodes[0].(*ast.Partial)
	if len(partial.Slots) != 2 {
		t.Fatalf("slots: got %d, want 2", len(partial.Slots))
	}
	if text := partial.Slots[1][0].(*ast.Text); text.Text != "B\n" {
		t.Errorf("slot 1: got %q", text.Text)
	}
}

func TestParsePartialInlineSlotShow(t *testing.T) {
	src := "@partial card { {{ $.x }} }{ \\{{ B \\}} }\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	partial := tree.Nodes[0].(*ast.Partial)
	if len(partial.Slots) != 2 {
		t.Fatalf("slots: got %d, want 2", len(partial.Slots))
	}
	show, ok := partial.Slots[0][0].(*ast.Show)
	if !ok {
		t.Fatalf("slot 0: got %T, want *ast.Show", partial.Slots[0][0])
	}
	if ref := show.Expr.(*ast.Ref); ref.Name != "" || strings.Join(ref.Path, ".") != "x" {
		t.Errorf("slot 0 show: got %s", show.Expr)
	}
	if text := partial.Slots[1][0].(*ast.Text); text.Text != "{{ B }}" {
		t.Errorf("slot 1: got %q", text.Text)
	}
}

func TestParseForeignNestedBraces(t *testing.T) {
	src := "@go {\nif x {\ny()\n}\n}\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(tree.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(tree.Nodes))
	}
	foreign, ok := tree.Nodes[0].(*ast.Foreign)
	if !ok {
		t.Fatalf("node 0: got %T, want *ast.Foreign", tree.Nodes[0])
	}
	if foreign.Source != "if x {\ny()\n}\n" {
		t.Errorf("source: got %q", foreign.Source)
	}
}

func TestParseMarkdownRuns(t *testing.T) {
	src := "# Title\n\nText\n@if ($.x)\nok\n@end\n"
	tree, err := Parse("page.md.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if tree.Format != ast.FormatMarkdown {
		t.Fatalf("format: got %v, want markdown", tree.Format)
	}
	md, ok := tree.Nodes[0].(*ast.Markdown)
	if !ok {
		t.Fatalf("node 0: got %T, want *ast.Markdown", tree.Nodes[0])
	}
	if md.Source != "# Title\n\nText\n" {
		t.Errorf("markdown source: got %q", md.Source)
	}
	cond := tree.Nodes[1].(*ast.If)
	if inner, ok := cond.Then[0].(*ast.Markdown); !ok || inner.Source != "ok\n" {
		t.Errorf("branch body: got %#v", cond.Then[0])
	}
}

func TestParseShows(t *testing.T) {
	src := "\\{{ literal \\}} {{{ $.raw }}} x\n"
	tree, err := Parse("test.zmpl", []byte(src))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(tree.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(tree.Nodes))
	}
	if text := tree.Nodes[0].(*ast.Text); text.Text != "{{ literal }} " {
		t.Errorf("node 0: got %q", text.Text)
	}
	show := tree.Nodes[1].(*ast.Show)
	if !show.Raw {
		t.Errorf("triple braces should parse as a raw show")
	}
	if text := tree.Nodes[2].(*ast.Text); text.Text != " x\n" {
		t.Errorf("node 2: got %q", text.Text)
	}
}

var parseErrorTests = []struct {
	src string
	msg string
}{
	{"@end\n", "unexpected @end"},
	{"x\n@args a: string\n", "@args must be the first directive"},
	{"@if ($.x)\nbody\n", "unexpected end of file, expecting @end"},
	{"{{ $.x \n", "show tag not closed"},
	{"@for ($.items)\n", "@for: missing |item| binding"},
	{"@if $.x\nA\n@end\n", "expecting ( after @if"},
	{"@if ($.x) |9x|\nA\n@end\n", "invalid binding name"},
	{"@args a: currency\n", "unknown type"},
	{"@args a\n", "missing type"},
	{"@if ($.x)\nA\n@else\nB\n@else\nC\n@end\n", "unexpected @else after @else"},
}

func TestParseErrors(t *testing.T) {
	for _, tt := range parseErrorTests {
		_, err := Parse("test.zmpl", []byte(tt.src))
		if err == nil {
			t.Errorf("source %q: expected error %q, got none", tt.src, tt.msg)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("source %q: got error %q, want %q", tt.src, err, tt.msg)
		}
	}
}
