// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strings"

	"github.com/jetzig-framework/zmpl/ast"
)

// lineKind classifies a logical line of template source.
type lineKind int

const (
	lineText     lineKind = iota // markup content
	lineMarkdown                 // markdown content, in markdown format files
	lineBlank                    // a run of one or more blank lines
	lineDirective                // @-directive
	lineVerbatim                 // content of a @markdown, @html or @go region
	lineClose                    // } closing a brace block
	lineSlotSep                  // }{ separating slot blocks
)

// line is one logical line: a physical line, or a multi-line markup tag
// buffered until its closing > balances.
type line struct {
	kind   lineKind
	text   string // content text, or the raw verbatim line
	name   string // directive name
	args   string // directive remainder, without a block-opening {
	opened bool   // the directive ended with { and opened a block
	pos    ast.Position
}

// mode is the interpretation context of a line. The lexer keeps a stack
// of modes: brace blocks re-enter the enclosing content mode, verbatim
// regions suspend lexing until the closing brace.
type mode int

const (
	modeMarkup mode = iota
	modeMarkdown
	modeVerbatim
)

// directives maps each directive word to whether it opens a verbatim
// region.
var directives = map[string]bool{
	"if":       false,
	"else":     false,
	"end":      false,
	"for":      false,
	"partial":  false,
	"args":     false,
	"markdown": true,
	"html":     true,
	"go":       true,
}

type lexer struct {
	path   string
	out    []line
	modes  []mode
	vdepth int // open braces inside the current verbatim region
}

func (l *lexer) mode() mode { return l.modes[len(l.modes)-1] }

func (l *lexer) push(m mode) { l.modes = append(l.modes, m) }

func (l *lexer) pop() { l.modes = l.modes[:len(l.modes)-1] }

// depth is the number of open brace blocks.
func (l *lexer) depth() int { return len(l.modes) - 1 }

func (l *lexer) emit(ln line) { l.out = append(l.out, ln) }

// lex splits src into classified logical lines, tracking the mode
// stack. It returns an error for a region left open at end of file.
func lex(path string, src []byte, format ast.Format) ([]line, Error) {
	base := modeMarkup
	if format == ast.FormatMarkdown {
		base = modeMarkdown
	}
	l := &lexer{path: path, modes: []mode{base}}

	physical := strings.Split(string(src), "\n")
	if n := len(physical); n > 0 && physical[n-1] == "" {
		physical = physical[:n-1]
	}

	inTag := false
	var buffered *line

	for i, raw := range physical {
		raw = strings.TrimSuffix(raw, "\r")
		pos := ast.Position{Line: i + 1, Column: 1}

		if l.mode() == modeVerbatim {
			// The region closes only at a } line balancing the opening
			// brace; braces opened inside the region are counted so a
			// nested block's own terminator stays in the region.
			if strings.TrimSpace(raw) == "}" && l.vdepth == 0 {
				l.pop()
				l.emit(line{kind: lineClose, pos: pos})
				continue
			}
			l.vdepth += strings.Count(raw, "{") - strings.Count(raw, "}")
			if l.vdepth < 0 {
				l.vdepth = 0
			}
			l.emit(line{kind: lineVerbatim, text: raw, pos: pos})
			continue
		}

		if inTag {
			buffered.text += "\n" + raw
			inTag = scanTag(raw, true)
			if !inTag {
				l.emit(*buffered)
				buffered = nil
			}
			continue
		}

		trimmed := strings.TrimSpace(raw)
		pos.Column = strings.Index(raw, trimmed) + 1

		if trimmed == "" {
			if n := len(l.out); n == 0 || l.out[n-1].kind != lineBlank {
				l.emit(line{kind: lineBlank, pos: pos})
			}
			continue
		}

		if l.depth() > 0 {
			if trimmed == "}" {
				l.pop()
				l.emit(line{kind: lineClose, pos: pos})
				continue
			}
			if trimmed == "}{" {
				l.emit(line{kind: lineSlotSep, pos: pos})
				continue
			}
		}

		if trimmed[0] == '@' {
			name := directiveWord(trimmed[1:])
			if verbatim, known := directives[name]; known {
				args := strings.TrimSpace(trimmed[1+len(name):])
				opens := strings.HasSuffix(args, "{") && !strings.HasSuffix(args, "}{")
				if opens {
					args = strings.TrimSpace(strings.TrimSuffix(args, "{"))
					if verbatim {
						l.push(modeVerbatim)
						l.vdepth = 0
					} else {
						l.push(l.mode())
					}
				} else if verbatim {
					return nil, errorf(path, pos, "@%s requires a { block", name)
				}
				l.emit(line{kind: lineDirective, name: name, args: args, opened: opens, pos: pos})
				continue
			}
		}

		if l.mode() == modeMarkdown {
			l.emit(line{kind: lineMarkdown, text: raw, pos: pos})
			continue
		}

		if scanTag(raw, false) {
			inTag = true
			buffered = &line{kind: lineText, text: raw, pos: pos}
			continue
		}
		l.emit(line{kind: lineText, text: raw, pos: pos})
	}

	if inTag {
		// An unbalanced tag at end of file is emitted as it stands,
		// the parser has no way to repair it anyway.
		l.emit(*buffered)
	}
	if l.depth() > 0 {
		eof := ast.Position{Line: len(physical) + 1, Column: 1}
		return nil, errorf(path, eof, "unexpected end of file, expecting }")
	}
	return l.out, nil
}

// directiveWord returns the run of lowercase letters at the start of s.
func directiveWord(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return s[:i]
		}
	}
	return s
}

// scanTag reports whether a markup line ends inside an unclosed tag.
func scanTag(s string, inTag bool) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			inTag = true
		case '>':
			inTag = false
		}
	}
	return inTag
}
