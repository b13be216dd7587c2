// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zmpl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/jetzig-framework/zmpl/ast"
	"github.com/jetzig-framework/zmpl/compiler"
	"github.com/jetzig-framework/zmpl/data"
	"github.com/jetzig-framework/zmpl/internal/runtime"
)

// Converter converts markdown source to HTML. It is called at render
// time for each markdown region.
type Converter func(src []byte, out io.Writer) error

// ForeignFunc renders a compiled foreign code block.
type ForeignFunc = compiler.ForeignFunc

// ForeignEmitter compiles @go blocks. Without one, @go blocks render
// their source verbatim.
type ForeignEmitter = compiler.ForeignEmitter

// BuildOptions configures a build. The zero value compiles templates
// with HTML escaping, no markdown converter and no foreign code
// support.
type BuildOptions struct {

	// MarkdownConverter converts @markdown regions and the content of
	// markdown format files. Rendering such a region without a
	// converter is a render error.
	MarkdownConverter Converter

	// NoEscape disables HTML escaping of shown values.
	NoEscape bool

	// ForeignCode compiles @go blocks.
	ForeignCode ForeignEmitter
}

// Manifest maps normalized template paths to compiled templates. All
// templates of one build share a manifest, which partial invocation
// and layout composition resolve against.
type Manifest struct {
	templates map[string]*Template
	routines  map[string]*runtime.Routine
	env       *runtime.Env
}

func newManifest(opts *BuildOptions) *Manifest {
	m := &Manifest{
		templates: map[string]*Template{},
		routines:  map[string]*runtime.Routine{},
	}
	env := &runtime.Env{
		Lookup: func(name string) (*runtime.Routine, bool) {
			r, ok := m.routines[name]
			return r, ok
		},
	}
	if opts != nil && opts.MarkdownConverter != nil {
		env.Markdown = opts.MarkdownConverter
	}
	if opts == nil || !opts.NoEscape {
		env.Escape = runtime.HTMLEscape
	}
	m.env = env
	return m
}

func (m *Manifest) add(r *runtime.Routine) *Template {
	t := &Template{name: r.Name, routine: r, manifest: m}
	m.routines[r.Name] = r
	m.templates[r.Name] = t
	return t
}

// Find returns the template with the given manifest key.
func (m *Manifest) Find(name string) (*Template, bool) {
	t, ok := m.templates[name]
	return t, ok
}

// FindPrefixed resolves a partial name relative to the directory
// prefix of an including template: prefix/partials/name first, then
// partials/name.
func (m *Manifest) FindPrefixed(prefix, name string) (*Template, bool) {
	for _, key := range compiler.PartialCandidates(prefix, name) {
		if t, ok := m.templates[key]; ok {
			return t, true
		}
	}
	return nil, false
}

// Names returns the manifest keys in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template is a compiled template, ready to render.
type Template struct {
	name     string
	routine  *runtime.Routine
	manifest *Manifest
}

// Name returns the template's manifest key.
func (t *Template) Name() string { return t.name }

// Manifest returns the manifest the template was compiled into.
func (t *Template) Manifest() *Manifest { return t.manifest }

// Disassemble returns the canonical text of the compiled routine. The
// same source always disassembles to the same text.
func (t *Template) Disassemble() string { return t.routine.Disassemble() }

// Render renders the template against d and writes the output to w. A
// nil d renders against an empty data tree.
func (t *Template) Render(w io.Writer, d *data.Data) error {
	return t.render(w, d, nil)
}

// RenderString renders the template against d and returns the output.
func (t *Template) RenderString(d *data.Data) (string, error) {
	var buf bytes.Buffer
	if err := t.render(&buf, d, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderWithLayout renders the template, then wraps the output in each
// named layout in turn: the rendered body is bound to the layout's
// reserved content name, pre-escaped, and the layout renders around
// it. Listing an inner layout before an outer one composes nested
// layouts.
func (t *Template) RenderWithLayout(w io.Writer, d *data.Data, layouts ...string) error {
	if d == nil {
		d = data.New()
	}
	var buf bytes.Buffer
	if err := t.render(&buf, d, nil); err != nil {
		return err
	}
	for _, name := range layouts {
		layout, ok := t.manifest.Find(name)
		if !ok {
			return &RenderError{Template: t.name, Err: fmt.Errorf("layout %q is not in the manifest", name)}
		}
		body := strings.TrimSuffix(buf.String(), "\n")
		bindings := []runtime.Binding{{Name: "content", Value: d.String(body), Safe: true}}
		var next bytes.Buffer
		if err := layout.render(&next, d, bindings); err != nil {
			return err
		}
		buf = next
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (t *Template) render(w io.Writer, d *data.Data, bindings []runtime.Binding) error {
	if d == nil {
		d = data.New()
	}
	if err := runtime.Render(t.manifest.env, t.routine, d, bindings, w); err != nil {
		return &RenderError{Template: t.name, Err: err}
	}
	return nil
}

// Build compiles the named template file from fsys, loading and
// compiling any partial it references, directly or through other
// partials. All compiled templates share the returned template's
// manifest.
func Build(fsys fs.FS, name string, opts *BuildOptions) (*Template, error) {
	b := newBuilder(fsys)
	key, err := b.load(name)
	if err != nil {
		return nil, wrapBuildError(err)
	}
	m, errs := b.compile(opts)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	t, _ := m.Find(key)
	return t, nil
}

// BuildAll compiles every template file under fsys. A file that fails
// to compile is left out of the manifest without aborting the batch;
// the joined error reports every failure.
func BuildAll(fsys fs.FS, opts *BuildOptions) (*Manifest, error) {
	b := newBuilder(fsys)
	var errs []error
	walkErr := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, compiler.Extension) {
			return nil
		}
		if _, err := b.load(p); err != nil {
			errs = append(errs, wrapBuildError(err))
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	m, cerrs := b.compile(opts)
	errs = append(errs, cerrs...)
	return m, errors.Join(errs...)
}

// builder accumulates parsed trees before emitting them against a
// shared manifest.
type builder struct {
	fsys  fs.FS
	trees map[string]*ast.Tree
	files map[string]string // manifest key to the file it was loaded from
	errs  []error           // partial files that failed to load
}

func newBuilder(fsys fs.FS) *builder {
	return &builder{fsys: fsys, trees: map[string]*ast.Tree{}, files: map[string]string{}}
}

// load parses the named file, registers its tree and loads the partial
// files it references. It returns the tree's manifest key.
func (b *builder) load(filename string) (string, error) {
	key := compiler.NormalizePath(filename)
	if prev, ok := b.files[key]; ok {
		if prev != filename {
			return "", fmt.Errorf("duplicate template %q: %s and %s", key, prev, filename)
		}
		return key, nil
	}
	b.files[key] = filename
	src, err := fs.ReadFile(b.fsys, filename)
	if err != nil {
		return "", err
	}
	tree, err := compiler.Parse(filename, src)
	if err != nil {
		return "", err
	}
	b.trees[key] = tree
	b.loadPartials(tree.Nodes, compiler.Dir(key))
	return key, nil
}

func (b *builder) loadPartials(nodes []ast.Node, fromDir string) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.If:
			b.loadPartials(n.Then, fromDir)
			b.loadPartials(n.Else, fromDir)
		case *ast.For:
			b.loadPartials(n.Body, fromDir)
		case *ast.Partial:
			b.loadPartial(fromDir, n.Name)
			for _, slot := range n.Slots {
				b.loadPartials(slot, fromDir)
			}
		}
	}
}

// loadPartial loads the file of a referenced partial, trying the
// including directory first, then the root, with the markup extension
// before the markdown one. An unresolvable name is not an error here:
// the emitter reports it at the call site.
func (b *builder) loadPartial(fromDir, name string) {
	candidates := compiler.PartialCandidates(fromDir, name)
	for _, key := range candidates {
		if _, ok := b.trees[key]; ok {
			return
		}
	}
	for _, key := range candidates {
		for _, ext := range []string{compiler.Extension, compiler.MarkdownExtension} {
			filename := key + ext
			if _, err := fs.Stat(b.fsys, filename); err != nil {
				continue
			}
			if _, err := b.load(filename); err != nil {
				b.errs = append(b.errs, wrapBuildError(err))
			}
			return
		}
	}
}

// compile emits every loaded tree into a fresh manifest. Emit failures
// are collected per file.
func (b *builder) compile(opts *BuildOptions) (*Manifest, []error) {
	m := newManifest(opts)
	em := &compiler.Emitter{Resolve: b.resolve}
	if opts != nil {
		em.Foreign = opts.ForeignCode
	}
	errs := b.errs
	keys := make([]string, 0, len(b.trees))
	for key := range b.trees {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		routine, err := em.Emit(b.trees[key])
		if err != nil {
			errs = append(errs, wrapBuildError(err))
			continue
		}
		m.add(routine)
	}
	return m, errs
}

func (b *builder) resolve(fromDir, name string) (string, []ast.Parameter, bool) {
	for _, key := range compiler.PartialCandidates(fromDir, name) {
		if tree, ok := b.trees[key]; ok {
			return key, tree.Args, true
		}
	}
	return "", nil, false
}
