// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package data implements the dynamic value model that templates are
// rendered against.
//
// A Data instance owns a tree of values rooted, by default, at an empty
// object. Values are created through the Data factory methods and belong
// to the creating instance for its whole lifetime; no value is released
// individually. A Data instance is not safe for concurrent mutation,
// concurrent renders must use independent instances.
//
// Objects preserve key insertion order, both during iteration and in the
// JSON encoding. See ToJSON and FromJSON for the interchange format.
package data
