// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/jetzig-framework/zmpl/ast"
)

// Extension is the template file extension. Files ending in
// MarkdownExtension start in markdown mode.
const (
	Extension         = ".zmpl"
	MarkdownExtension = ".md.zmpl"
)

// FormatOf returns the initial format of the named template file.
func FormatOf(name string) ast.Format {
	if strings.HasSuffix(name, MarkdownExtension) {
		return ast.FormatMarkdown
	}
	return ast.FormatMarkup
}

// NormalizePath returns the manifest key of a template file name:
// posix separators, no extension.
func NormalizePath(name string) string {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if strings.HasSuffix(name, MarkdownExtension) {
		return name[:len(name)-len(MarkdownExtension)]
	}
	return strings.TrimSuffix(name, Extension)
}

// ValidPath reports whether path is valid as a template or partial
// reference.
func ValidPath(p string) bool {
	return utf8.ValidString(p) &&
		p != "" && p != ".." &&
		p[0] != '/' && p[len(p)-1] != '/' &&
		!strings.Contains(p, "//") &&
		!strings.Contains(p, "\\") &&
		!strings.HasPrefix(p, "../") &&
		!strings.Contains(p, "/../") &&
		!strings.HasSuffix(p, "/..")
}

// PartialCandidates returns the manifest keys a partial name may
// resolve to, in resolution order: relative to the including template's
// directory first, then from the manifest root. Partials live under a
// "partials" path element, keeping them addressable apart from top
// level views.
func PartialCandidates(fromDir, name string) []string {
	rooted := path.Join("partials", name)
	if fromDir == "" || fromDir == "." {
		return []string{rooted}
	}
	relative := path.Join(fromDir, "partials", name)
	if relative == rooted {
		return []string{rooted}
	}
	return []string{relative, rooted}
}

// Dir returns the directory of a normalized template path, "" for a
// root level template.
func Dir(key string) string {
	d := path.Dir(key)
	if d == "." {
		return ""
	}
	return d
}
