// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

// Array is an insertion-ordered sequence of values with dense indices.
type Array struct {
	items []*Value
}

func newArray() *Array {
	return &Array{}
}

// Append adds value at the end of the array. A nil value stores an
// explicit null.
func (a *Array) Append(value *Value) {
	if value == nil {
		value = &Value{kind: KindNull}
	}
	a.items = append(a.items, value)
}

// At returns the element at index i, or nil if i is out of range.
func (a *Array) At(i int) *Value {
	if a == nil || i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Each calls f for every index and element in order, stopping if f
// returns false.
func (a *Array) Each(f func(i int, value *Value) bool) {
	if a == nil {
		return
	}
	for i, v := range a.items {
		if !f(i, v) {
			return
		}
	}
}

func (a *Array) equal(other *Array) bool {
	if a.Len() != other.Len() {
		return false
	}
	for i, v := range a.items {
		if !v.Equal(other.items[i]) {
			return false
		}
	}
	return true
}
