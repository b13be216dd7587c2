// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"strconv"
	"time"
)

// Kind is the tag of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindDateTime
	KindObject
	KindArray
)

var kindNames = [...]string{"null", "boolean", "integer", "float", "string", "datetime", "object", "array"}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a tagged variant over the kinds null, boolean, integer, float,
// string, datetime, object and array. The tag is fixed at construction.
//
// A nil *Value represents a missing value: it is falsy, renders as the
// empty string and all accessors return zero values.
type Value struct {
	kind Kind
	b    bool
	n    int64
	f    float64
	s    string
	t    time.Time
	o    *Object
	a    *Array
}

// Kind returns the tag of the value. The kind of a nil value is KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is missing or has the null tag.
func (v *Value) IsNull() bool { return v == nil || v.kind == KindNull }

// Truthy evaluates the value according to the truthiness rules: null and
// missing values are false, booleans evaluate to themselves, numbers are
// true when nonzero, strings when nonempty, and datetime, object and
// array values are true whenever present.
func (v *Value) Truthy() bool {
	if v == nil {
		return false
	}
	switch v.kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.b
	case KindInteger:
		return v.n != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	}
	return true
}

// ToBoolean returns the boolean payload, or false for any other kind.
func (v *Value) ToBoolean() bool {
	if v == nil || v.kind != KindBoolean {
		return false
	}
	return v.b
}

// ToInteger returns the integer payload, or 0 for any other kind.
func (v *Value) ToInteger() int64 {
	if v == nil || v.kind != KindInteger {
		return 0
	}
	return v.n
}

// ToFloat returns the float payload. Integer values are converted; any
// other kind returns 0.
func (v *Value) ToFloat() float64 {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInteger:
		return float64(v.n)
	}
	return 0
}

// ToString returns the string payload, or "" for any other kind. To
// obtain the rendered form of a value of any kind use String.
func (v *Value) ToString() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.s
}

// ToDateTime returns the datetime payload, or the zero time for any
// other kind.
func (v *Value) ToDateTime() time.Time {
	if v == nil || v.kind != KindDateTime {
		return time.Time{}
	}
	return v.t
}

// Object returns the object payload, or nil if the value is not an
// object.
func (v *Value) Object() *Object {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.o
}

// Array returns the array payload, or nil if the value is not an array.
func (v *Value) Array() *Array {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.a
}

// Get returns the value of key if the value is an object, otherwise nil.
func (v *Value) Get(key string) *Value {
	if o := v.Object(); o != nil {
		return o.Get(key)
	}
	return nil
}

// At returns the element at index i if the value is an array, otherwise
// nil.
func (v *Value) At(i int) *Value {
	if a := v.Array(); a != nil {
		return a.At(i)
	}
	return nil
}

// GetTyped returns the value of key only if its tag matches kind,
// otherwise nil. It is the shape assertion used before structural
// access.
func (v *Value) GetTyped(kind Kind, key string) *Value {
	value := v.Get(key)
	if value == nil || value.kind != kind {
		return nil
	}
	return value
}

// String returns the rendered form of the value: the empty string for
// null and missing values, decimal notation for numbers, RFC 3339 for
// datetimes, and the canonical JSON encoding for objects and arrays.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	switch v.kind {
	case KindNull:
		return ""
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	}
	return string(v.appendJSON(nil))
}

// Equal reports whether two values are structurally equal. Objects are
// equal only if their keys appear in the same order with equal values.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v.IsNull() && other.IsNull()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.b == other.b
	case KindInteger:
		return v.n == other.n
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindDateTime:
		return v.t.Equal(other.t)
	case KindObject:
		return v.o.equal(other.o)
	}
	return v.a.equal(other.a)
}
