// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"fmt"
	"strconv"
	"strings"
)

// RefError is returned when a reference path descends through a value
// that is neither an object nor an array.
type RefError struct {
	Path    string // full reference path
	Segment string // segment that failed to resolve
	Kind    Kind   // kind of the value the segment was applied to
}

func (e *RefError) Error() string {
	return fmt.Sprintf("data: cannot resolve %q in %q: %s value", e.Segment, e.Path, e.Kind)
}

// ResolveRef resolves the dot-delimited path against root, descending
// object keys and array indices. A missing key, a non-numeric or out of
// range array index, or a descent into a null value resolves to nil
// with no error. Descending through a scalar returns a *RefError.
func ResolveRef(root *Value, path string) (*Value, error) {
	current := root
	if path == "" {
		return current, nil
	}
	for _, segment := range strings.Split(path, ".") {
		if current.IsNull() {
			return nil, nil
		}
		switch current.Kind() {
		case KindObject:
			current = current.Object().Get(segment)
		case KindArray:
			i, err := strconv.Atoi(segment)
			if err != nil {
				return nil, nil
			}
			current = current.Array().At(i)
		default:
			return nil, &RefError{Path: path, Segment: segment, Kind: current.Kind()}
		}
	}
	return current, nil
}
