// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strconv"
	"strings"

	"github.com/jetzig-framework/zmpl/ast"
)

// Parse parses one template source file into a tree. name is the file
// name within the template root; the tree's path is its normalized
// form and its format is determined by the extension.
func Parse(name string, src []byte) (*ast.Tree, error) {
	format := FormatOf(name)
	lines, err := lex(name, src, format)
	if err != nil {
		return nil, err
	}
	p := &parser{path: name, lines: lines}
	tree := &ast.Tree{Path: NormalizePath(name), Format: format}
	params, perr := p.parseArgs()
	if perr != nil {
		return nil, perr
	}
	tree.Args = params
	nodes, _, perr := p.parseNodes(stopEOF)
	if perr != nil {
		return nil, perr
	}
	tree.Nodes = nodes
	return tree, nil
}

type parser struct {
	path  string
	lines []line
	index int
}

func (p *parser) next() (line, bool) {
	if p.index >= len(p.lines) {
		return line{}, false
	}
	ln := p.lines[p.index]
	p.index++
	return ln, true
}

func (p *parser) backup() { p.index-- }

func (p *parser) errorf(pos ast.Position, format string, args ...interface{}) Error {
	return errorf(p.path, pos, format, args...)
}

// stop tells parseNodes which terminators are acceptable for the block
// being parsed.
type stop int

const (
	stopEOF     stop = iota // top level: only end of file
	stopEnd                 // @if chain: @else, @else if or @end
	stopBrace               // @for body: }
	stopSlot                // slot block: } or }{
)

// terminator records how a block was closed.
type terminator struct {
	kind lineKind // lineDirective, lineClose or lineSlotSep
	name string   // "else", "else if" or "end" for directives
	args string   // remainder of an @else if directive
	pos  ast.Position
}

// parseArgs parses a leading @args declaration. @args anywhere else in
// the file is a parse error raised later.
func (p *parser) parseArgs() ([]ast.Parameter, Error) {
	for i, ln := range p.lines {
		switch ln.kind {
		case lineBlank:
			continue
		case lineDirective:
			if ln.name != "args" {
				return nil, nil
			}
			params, err := p.parseParameters(ln)
			if err != nil {
				return nil, err
			}
			p.index = i + 1
			return params, nil
		}
		return nil, nil
	}
	return nil, nil
}

var paramTypes = map[string]bool{
	"string": true, "integer": true, "float": true, "boolean": true,
	"object": true, "array": true, "any": true,
}

func (p *parser) parseParameters(ln line) ([]ast.Parameter, Error) {
	var params []ast.Parameter
	seen := map[string]bool{}
	for _, spec := range strings.Split(ln.args, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			return nil, p.errorf(ln.pos, "@args: empty parameter")
		}
		name, rest, found := strings.Cut(spec, ":")
		if !found {
			return nil, p.errorf(ln.pos, "@args: missing type for parameter %q", spec)
		}
		name = strings.TrimSpace(name)
		if !isIdentifier(name) {
			return nil, p.errorf(ln.pos, "@args: invalid parameter name %q", name)
		}
		if seen[name] {
			return nil, p.errorf(ln.pos, "@args: duplicate parameter %q", name)
		}
		seen[name] = true
		typ, def, _ := strings.Cut(rest, "=")
		typ = strings.TrimSpace(typ)
		if !paramTypes[typ] {
			return nil, p.errorf(ln.pos, "@args: unknown type %q for parameter %q", typ, name)
		}
		param := ast.Parameter{Name: name, Type: typ}
		if d := strings.TrimSpace(def); d != "" {
			expr, err := p.parseExpr(d, ln.pos)
			if err != nil {
				return nil, err
			}
			param.Default = expr
		}
		params = append(params, param)
	}
	return params, nil
}

// parseNodes parses lines until a terminator acceptable for st, which
// is returned alongside the nodes. At top level the terminator kind is
// zero valued.
func (p *parser) parseNodes(st stop) ([]ast.Node, terminator, Error) {
	var nodes []ast.Node
	for {
		ln, ok := p.next()
		if !ok {
			if st != stopEOF {
				pos := ast.Position{Line: len(p.lines) + 1, Column: 1}
				if st == stopEnd {
					return nil, terminator{}, p.errorf(pos, "unexpected end of file, expecting @end")
				}
				return nil, terminator{}, p.errorf(pos, "unexpected end of file, expecting }")
			}
			return nodes, terminator{}, nil
		}
		switch ln.kind {
		case lineBlank:
			nodes = append(nodes, ast.NewText(ln.pos, "\n"))
		case lineText:
			content, err := p.parseContent(ln.text+"\n", ln.pos)
			if err != nil {
				return nil, terminator{}, err
			}
			nodes = append(nodes, content...)
		case lineMarkdown:
			p.backup()
			nodes = append(nodes, p.parseMarkdownRun())
		case lineClose:
			if st == stopBrace || st == stopSlot {
				return nodes, terminator{kind: lineClose, pos: ln.pos}, nil
			}
			return nil, terminator{}, p.errorf(ln.pos, "unexpected }")
		case lineSlotSep:
			if st == stopSlot {
				return nodes, terminator{kind: lineSlotSep, pos: ln.pos}, nil
			}
			return nil, terminator{}, p.errorf(ln.pos, "unexpected }{ outside a slot block")
		case lineDirective:
			switch ln.name {
			case "if":
				node, err := p.parseIf(ln)
				if err != nil {
					return nil, terminator{}, err
				}
				nodes = append(nodes, node)
			case "for":
				node, err := p.parseFor(ln)
				if err != nil {
					return nil, terminator{}, err
				}
				nodes = append(nodes, node)
			case "partial":
				node, err := p.parsePartial(ln)
				if err != nil {
					return nil, terminator{}, err
				}
				nodes = append(nodes, node)
			case "markdown", "html", "go":
				node, err := p.parseRegion(ln)
				if err != nil {
					return nil, terminator{}, err
				}
				nodes = append(nodes, node)
			case "args":
				return nil, terminator{}, p.errorf(ln.pos, "@args must be the first directive of the file")
			case "else":
				if st != stopEnd {
					return nil, terminator{}, p.errorf(ln.pos, "unexpected @else outside @if")
				}
				if rest, found := strings.CutPrefix(ln.args, "if"); found {
					return nodes, terminator{kind: lineDirective, name: "else if", args: strings.TrimSpace(rest), pos: ln.pos}, nil
				}
				if ln.args != "" {
					return nil, terminator{}, p.errorf(ln.pos, "unexpected %q after @else", ln.args)
				}
				return nodes, terminator{kind: lineDirective, name: "else", pos: ln.pos}, nil
			case "end":
				if st != stopEnd {
					return nil, terminator{}, p.errorf(ln.pos, "unexpected @end")
				}
				if ln.args != "" {
					return nil, terminator{}, p.errorf(ln.pos, "unexpected %q after @end", ln.args)
				}
				return nodes, terminator{kind: lineDirective, name: "end", pos: ln.pos}, nil
			}
		}
	}
}

// parseMarkdownRun gathers a contiguous run of markdown content lines,
// blank lines included, into one markdown region.
func (p *parser) parseMarkdownRun() *ast.Markdown {
	var b strings.Builder
	first, _ := p.next()
	pos := first.pos
	p.backup()
	for {
		ln, ok := p.next()
		if !ok {
			break
		}
		if ln.kind == lineMarkdown {
			b.WriteString(ln.text)
			b.WriteString("\n")
			continue
		}
		if ln.kind == lineBlank {
			// A blank run belongs to the region only if markdown
			// content follows, otherwise it ends the region.
			if nxt, ok2 := p.next(); ok2 {
				p.backup()
				if nxt.kind == lineMarkdown {
					b.WriteString("\n")
					continue
				}
			}
			p.backup()
			break
		}
		p.backup()
		break
	}
	return ast.NewMarkdown(pos, b.String())
}

// parseIf parses an @if chain starting at ln.
func (p *parser) parseIf(ln line) (ast.Node, Error) {
	cond, binding, err := p.parseCondition(ln)
	if err != nil {
		return nil, err
	}
	then, term, err := p.parseNodes(stopEnd)
	if err != nil {
		return nil, err
	}
	var els []ast.Node
	switch term.name {
	case "else if":
		node, err := p.parseIf(line{name: "if", args: term.args, pos: term.pos})
		if err != nil {
			return nil, err
		}
		els = []ast.Node{node}
	case "else":
		var term2 terminator
		els, term2, err = p.parseNodes(stopEnd)
		if err != nil {
			return nil, err
		}
		if term2.name != "end" {
			return nil, p.errorf(term2.pos, "unexpected @%s after @else", term2.name)
		}
	}
	return ast.NewIf(ln.pos, cond, binding, then, els), nil
}

// parseCondition parses "(expr) [|name|]".
func (p *parser) parseCondition(ln line) (ast.Expression, string, Error) {
	args := strings.TrimSpace(ln.args)
	if !strings.HasPrefix(args, "(") {
		return nil, "", p.errorf(ln.pos, "@%s: expecting ( after @%s", ln.name, ln.name)
	}
	inner, rest, err := p.cutParens(args, ln.pos)
	if err != nil {
		return nil, "", err
	}
	cond, err := p.parseExpr(inner, ln.pos)
	if err != nil {
		return nil, "", err
	}
	binding := ""
	if rest != "" {
		binding, err = p.parseBinding(rest, ln.pos)
		if err != nil {
			return nil, "", err
		}
	}
	return cond, binding, nil
}

// parseFor parses "@for (expr) |item[, index]| { ... }". The lexer has
// already consumed the opening brace.
func (p *parser) parseFor(ln line) (ast.Node, Error) {
	args := strings.TrimSpace(ln.args)
	if !strings.HasPrefix(args, "(") {
		return nil, p.errorf(ln.pos, "@for: expecting ( after @for")
	}
	inner, rest, err := p.cutParens(args, ln.pos)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(inner, ln.pos)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return nil, p.errorf(ln.pos, "@for: missing |item| binding")
	}
	bindings, err := p.parseBindings(rest, ln.pos)
	if err != nil {
		return nil, err
	}
	item := bindings[0]
	index := ""
	if len(bindings) > 1 {
		index = bindings[1]
	}
	if len(bindings) > 2 {
		return nil, p.errorf(ln.pos, "@for: at most two bindings, item and index")
	}
	body, _, err := p.parseNodes(stopBrace)
	if err != nil {
		return nil, err
	}
	return ast.NewFor(ln.pos, expr, item, index, body), nil
}

// parsePartial parses "@partial name(args)" with optional inline
// "{ slot }{ slot }" groups or a multi-line slot block.
func (p *parser) parsePartial(ln line) (ast.Node, Error) {
	args := strings.TrimSpace(ln.args)
	name := args
	rest := ""
	if i := strings.IndexAny(args, "( {"); i >= 0 {
		name, rest = args[:i], strings.TrimSpace(args[i:])
	}
	if !ValidPath(name) {
		return nil, p.errorf(ln.pos, "@partial: invalid partial name %q", name)
	}
	var callArgs []ast.Arg
	if strings.HasPrefix(rest, "(") {
		inner, after, err := p.cutParens(rest, ln.pos)
		if err != nil {
			return nil, err
		}
		callArgs, err = p.parseCallArgs(inner, ln.pos)
		if err != nil {
			return nil, err
		}
		rest = after
	}
	var slots [][]ast.Node
	switch {
	case rest == "" && ln.opened:
		// Multi-line slot blocks, closed by } or separated by }{.
		for {
			body, term, err := p.parseNodes(stopSlot)
			if err != nil {
				return nil, err
			}
			slots = append(slots, body)
			if term.kind == lineClose {
				break
			}
		}
	case rest != "":
		var err Error
		slots, err = p.parseInlineSlots(rest, ln.pos)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewPartial(ln.pos, name, callArgs, slots), nil
}

// parseInlineSlots parses "{ A }{ B }" into slot bodies.
func (p *parser) parseInlineSlots(s string, pos ast.Position) ([][]ast.Node, Error) {
	var slots [][]ast.Node
	for s != "" {
		if s[0] != '{' {
			return nil, p.errorf(pos, "@partial: unexpected %q, expecting {", s)
		}
		end := slotEnd(s)
		if end < 0 {
			return nil, p.errorf(pos, "@partial: slot block not closed")
		}
		body, err := p.parseContent(strings.TrimSpace(s[1:end]), pos)
		if err != nil {
			return nil, err
		}
		slots = append(slots, body)
		s = strings.TrimSpace(s[end+1:])
	}
	return slots, nil
}

// slotEnd returns the index of the } closing the inline slot opened at
// s[0], scanning past show tags and escaped braces, or -1 if the slot
// is not closed.
func slotEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] == '\\' && (strings.HasPrefix(s[i+1:], "{{") || strings.HasPrefix(s[i+1:], "}}")):
			i += 2
		case strings.HasPrefix(s[i:], "{{"):
			closing := "}}"
			if strings.HasPrefix(s[i:], "{{{") {
				closing = "}}}"
			}
			j := strings.Index(s[i:], closing)
			if j < 0 {
				return -1
			}
			i += j + len(closing) - 1
		case s[i] == '}':
			return i
		}
	}
	return -1
}

// parseRegion gathers the verbatim lines of a @markdown, @html or @go
// region.
func (p *parser) parseRegion(ln line) (ast.Node, Error) {
	var b strings.Builder
	for {
		inner, ok := p.next()
		if !ok {
			return nil, p.errorf(ln.pos, "@%s region not closed", ln.name)
		}
		if inner.kind == lineClose {
			break
		}
		b.WriteString(inner.text)
		b.WriteString("\n")
	}
	source := b.String()
	switch ln.name {
	case "markdown":
		return ast.NewMarkdown(ln.pos, source), nil
	case "html":
		return ast.NewRaw(ln.pos, source), nil
	}
	return ast.NewForeign(ln.pos, source), nil
}

// parseCallArgs parses the comma separated arguments of a partial
// call: positional expressions, then keyword "name: expr" pairs.
func (p *parser) parseCallArgs(s string, pos ast.Position) ([]ast.Arg, Error) {
	var out []ast.Arg
	for _, part := range splitArgs(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := ""
		expr := part
		if i := strings.IndexByte(part, ':'); i >= 0 && !strings.HasPrefix(part, "\"") {
			name = strings.TrimSpace(part[:i])
			if !isIdentifier(name) {
				return nil, p.errorf(pos, "@partial: invalid argument name %q", name)
			}
			expr = strings.TrimSpace(part[i+1:])
		}
		value, err := p.parseExpr(expr, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Arg{Name: name, Value: value})
	}
	return out, nil
}

// splitArgs splits on commas not inside a string literal.
func splitArgs(s string) []string {
	var parts []string
	start := 0
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if !inString {
				inString = true
			} else if i == 0 || s[i-1] != '\\' {
				inString = false
			}
		case ',':
			if !inString {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// cutParens cuts a leading parenthesized group, returning its inner
// text and the remainder.
func (p *parser) cutParens(s string, pos ast.Position) (inner, rest string, err Error) {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if !inString {
				inString = true
			} else if s[i-1] != '\\' {
				inString = false
			}
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if inString {
				break
			}
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[1:i]), strings.TrimSpace(s[i+1:]), nil
			}
		}
	}
	return "", "", p.errorf(pos, "unbalanced parentheses in %q", s)
}

// parseBinding parses a single "|name|" group.
func (p *parser) parseBinding(s string, pos ast.Position) (string, Error) {
	names, err := p.parseBindings(s, pos)
	if err != nil {
		return "", err
	}
	if len(names) != 1 {
		return "", p.errorf(pos, "expecting a single |name| binding")
	}
	return names[0], nil
}

// parseBindings parses "|a, b|" into identifier names.
func (p *parser) parseBindings(s string, pos ast.Position) ([]string, Error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '|' || s[len(s)-1] != '|' {
		return nil, p.errorf(pos, "invalid binding %q, expecting |name|", s)
	}
	var names []string
	for _, name := range strings.Split(s[1:len(s)-1], ",") {
		name = strings.TrimSpace(name)
		if !isIdentifier(name) {
			return nil, p.errorf(pos, "invalid binding name %q", name)
		}
		names = append(names, name)
	}
	return names, nil
}

// parseContent splits markup text into literal text and show nodes.
// The escapes \{{ and \}} emit literal braces; {{ expr }} interpolates
// escaped, {{{ expr }}} interpolates raw.
func (p *parser) parseContent(text string, pos ast.Position) ([]ast.Node, Error) {
	var nodes []ast.Node
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			nodes = append(nodes, ast.NewText(pos, b.String()))
			b.Reset()
		}
	}
	for i := 0; i < len(text); {
		if text[i] == '\\' && i+2 < len(text) && (text[i+1:i+3] == "{{" || text[i+1:i+3] == "}}") {
			b.WriteString(text[i+1 : i+3])
			i += 3
			continue
		}
		if strings.HasPrefix(text[i:], "{{") {
			raw := strings.HasPrefix(text[i:], "{{{")
			open, closing := "{{", "}}"
			if raw {
				open, closing = "{{{", "}}}"
			}
			end := strings.Index(text[i+len(open):], closing)
			if end < 0 {
				return nil, p.errorf(pos, "show tag not closed, expecting %s", closing)
			}
			expr, err := p.parseExpr(strings.TrimSpace(text[i+len(open):i+len(open)+end]), pos)
			if err != nil {
				return nil, err
			}
			flush()
			nodes = append(nodes, ast.NewShow(pos, expr, raw))
			i += len(open) + end + len(closing)
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	flush()
	return nodes, nil
}

// parseExpr parses a reference or literal expression.
func (p *parser) parseExpr(s string, pos ast.Position) (ast.Expression, Error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, p.errorf(pos, "empty expression")
	}
	if s[0] == '"' {
		value, err := strconv.Unquote(s)
		if err != nil {
			return nil, p.errorf(pos, "invalid string literal %s", s)
		}
		return ast.NewStringLit(pos, value), nil
	}
	if s == "true" || s == "false" {
		return ast.NewBoolLit(pos, s == "true"), nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ast.NewIntLit(pos, n), nil
	}
	if c := s[0]; c == '-' || '0' <= c && c <= '9' {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ast.NewFloatLit(pos, f), nil
		}
		return nil, p.errorf(pos, "invalid number literal %q", s)
	}
	switch {
	case s == "$":
		return ast.NewRef(pos, "", nil), nil
	case strings.HasPrefix(s, "$."):
		path, err := p.parsePath(s[2:], pos)
		if err != nil {
			return nil, err
		}
		return ast.NewRef(pos, "", path), nil
	case s[0] == '.':
		path, err := p.parsePath(s[1:], pos)
		if err != nil {
			return nil, err
		}
		return ast.NewRef(pos, "", path), nil
	}
	segments, err := p.parsePath(s, pos)
	if err != nil {
		return nil, err
	}
	if !isIdentifier(segments[0]) {
		return nil, p.errorf(pos, "invalid reference %q", s)
	}
	return ast.NewRef(pos, segments[0], segments[1:]), nil
}

// parsePath splits a dot path, validating each segment.
func (p *parser) parsePath(s string, pos ast.Position) ([]string, Error) {
	segments := strings.Split(s, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, p.errorf(pos, "invalid reference path %q", s)
		}
		for i := 0; i < len(segment); i++ {
			c := segment[i]
			if c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
				continue
			}
			return nil, p.errorf(pos, "invalid character %q in reference path %q", c, s)
		}
	}
	return segments, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
			continue
		}
		if i > 0 && '0' <= c && c <= '9' {
			continue
		}
		return false
	}
	return true
}
