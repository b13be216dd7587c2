// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

// Object is an ordered mapping from string keys to values. Keys are
// unique; putting an existing key replaces its value in place, keeping
// the original insertion position.
type Object struct {
	keys   []string
	values map[string]*Value
}

func newObject() *Object {
	return &Object{values: map[string]*Value{}}
}

// Put sets key to value. A nil value stores an explicit null.
func (o *Object) Put(key string, value *Value) {
	if value == nil {
		value = &Value{kind: KindNull}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value of key, or nil if the key is not present.
func (o *Object) Get(key string) *Value {
	if o == nil {
		return nil
	}
	return o.values[key]
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Remove deletes key and shifts the following keys down. It reports
// whether the key was present.
func (o *Object) Remove(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The returned slice must not
// be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Each calls f for every key and value in insertion order, stopping if f
// returns false.
func (o *Object) Each(f func(key string, value *Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !f(k, o.values[k]) {
			return
		}
	}
}

func (o *Object) equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i, k := range o.Keys() {
		if other.keys[i] != k {
			return false
		}
		if !o.values[k].Equal(other.values[k]) {
			return false
		}
	}
	return true
}
