// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mapfs implements a file system backed by a map, used in
// tests to build template roots without touching the disk.
package mapfs

import (
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"
)

// FS is a read-only file system of string files keyed by slash path.
// Directories are implied by the paths of the files they contain.
type FS map[string]string

func (fsys FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if content, ok := fsys[name]; ok {
		return &file{name: name, reader: strings.NewReader(content)}, nil
	}
	if name == "." || fsys.hasDir(name) {
		return &dir{name: name, entries: fsys.readDir(name)}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (fsys FS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	content, ok := fsys[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func (fsys FS) hasDir(name string) bool {
	prefix := name + "/"
	for p := range fsys {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (fsys FS) readDir(name string) []fs.DirEntry {
	prefix := ""
	if name != "." {
		prefix = name + "/"
	}
	seen := map[string]bool{}
	var entries []fs.DirEntry
	for p := range fsys {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			sub := rest[:i]
			if !seen[sub] {
				seen[sub] = true
				entries = append(entries, entry{name: sub, dir: true})
			}
		} else if !seen[rest] {
			seen[rest] = true
			entries = append(entries, entry{name: rest, size: int64(len(fsys[p]))})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries
}

type file struct {
	name   string
	reader *strings.Reader
}

func (f *file) Stat() (fs.FileInfo, error) {
	return entry{name: pathBase(f.name), size: f.reader.Size()}, nil
}

func (f *file) Read(p []byte) (int, error) { return f.reader.Read(p) }

func (f *file) Close() error { return nil }

type dir struct {
	name    string
	entries []fs.DirEntry
	offset  int
}

func (d *dir) Stat() (fs.FileInfo, error) {
	return entry{name: pathBase(d.name), dir: true}, nil
}

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dir) Close() error { return nil }

func (d *dir) ReadDir(n int) ([]fs.DirEntry, error) {
	if n <= 0 {
		remaining := d.entries[d.offset:]
		d.offset = len(d.entries)
		return remaining, nil
	}
	if d.offset >= len(d.entries) {
		return nil, io.EOF
	}
	end := d.offset + n
	if end > len(d.entries) {
		end = len(d.entries)
	}
	batch := d.entries[d.offset:end]
	d.offset = end
	return batch, nil
}

// entry is both the DirEntry and the FileInfo of a map file.
type entry struct {
	name string
	size int64
	dir  bool
}

func (e entry) Name() string { return e.name }

func (e entry) IsDir() bool { return e.dir }

func (e entry) Type() fs.FileMode { return e.Mode().Type() }

func (e entry) Info() (fs.FileInfo, error) { return e, nil }

func (e entry) Size() int64 { return e.size }

func (e entry) Mode() fs.FileMode {
	if e.dir {
		return fs.ModeDir | 0555
	}
	return 0444
}

func (e entry) ModTime() time.Time { return time.Time{} }

func (e entry) Sys() interface{} { return nil }

func pathBase(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
