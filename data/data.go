// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import "time"

// Data owns a tree of values used as the root of a render. The zero
// Data is not usable, call New or NewArrayRoot.
//
// All values in the tree are created through the factory methods of the
// owning instance and share its lifetime. The tree is released as a
// whole when the instance becomes unreachable.
type Data struct {
	root *Value
}

// New returns a Data instance rooted at an empty object.
func New() *Data {
	d := &Data{}
	d.root = d.Object()
	return d
}

// NewArrayRoot returns a Data instance rooted at an empty array.
func NewArrayRoot() *Data {
	d := &Data{}
	d.root = d.Array()
	return d
}

// Root returns the root value.
func (d *Data) Root() *Value { return d.root }

// Null returns a null value.
func (d *Data) Null() *Value { return &Value{kind: KindNull} }

// Boolean returns a boolean value.
func (d *Data) Boolean(b bool) *Value { return &Value{kind: KindBoolean, b: b} }

// Integer returns an integer value.
func (d *Data) Integer(n int64) *Value { return &Value{kind: KindInteger, n: n} }

// Float returns a float value.
func (d *Data) Float(f float64) *Value { return &Value{kind: KindFloat, f: f} }

// String returns a string value.
func (d *Data) String(s string) *Value { return &Value{kind: KindString, s: s} }

// DateTime returns a datetime value.
func (d *Data) DateTime(t time.Time) *Value { return &Value{kind: KindDateTime, t: t} }

// Object returns a value holding a new empty object.
func (d *Data) Object() *Value { return &Value{kind: KindObject, o: newObject()} }

// Array returns a value holding a new empty array.
func (d *Data) Array() *Value { return &Value{kind: KindArray, a: newArray()} }

// Put sets key on the root object. It panics if the root is not an
// object.
func (d *Data) Put(key string, value *Value) {
	o := d.root.Object()
	if o == nil {
		panic("data: root is not an object")
	}
	o.Put(key, value)
}

// Append adds value to the root array. It panics if the root is not an
// array.
func (d *Data) Append(value *Value) {
	a := d.root.Array()
	if a == nil {
		panic("data: root is not an array")
	}
	a.Append(value)
}

// Ref resolves a dot-delimited path against the root. See ResolveRef.
func (d *Data) Ref(path string) (*Value, error) {
	return ResolveRef(d.root, path)
}

// Describable is implemented by host types that can describe themselves
// as a value tree. Each record type the host application binds into
// templates implements Describe once, mapping its fields to the
// corresponding value kinds and absent fields to null.
type Describable interface {
	Describe(d *Data) *Value
}

// Describe returns the value tree of v under this instance.
func (d *Data) Describe(v Describable) *Value {
	if v == nil {
		return d.Null()
	}
	return v.Describe(d)
}
