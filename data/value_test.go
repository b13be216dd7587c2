// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"testing"
	"time"
)

func TestTruthiness(t *testing.T) {
	d := New()
	tests := []struct {
		name  string
		value *Value
		want  bool
	}{
		{"missing", nil, false},
		{"null", d.Null(), false},
		{"false", d.Boolean(false), false},
		{"true", d.Boolean(true), true},
		{"zero int", d.Integer(0), false},
		{"one", d.Integer(1), true},
		{"negative", d.Integer(-1), true},
		{"zero float", d.Float(0), false},
		{"nonzero float", d.Float(0.1), true},
		{"empty string", d.String(""), false},
		{"string", d.String("x"), true},
		{"empty object", d.Object(), true},
		{"empty array", d.Array(), true},
		{"datetime", d.DateTime(time.Time{}), true},
	}
	for _, tt := range tests {
		if got := tt.value.Truthy(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	d := New()
	when := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		value *Value
		want  string
	}{
		{nil, ""},
		{d.Null(), ""},
		{d.Boolean(true), "true"},
		{d.Integer(42), "42"},
		{d.Float(1.5), "1.5"},
		{d.Float(3), "3"},
		{d.String("hello"), "hello"},
		{d.DateTime(when), "2024-05-17T09:30:00Z"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestGetTyped(t *testing.T) {
	d := New()
	d.Put("name", d.String("iguana"))
	d.Put("count", d.Integer(3))
	if v := d.Root().GetTyped(KindString, "name"); v == nil || v.ToString() != "iguana" {
		t.Fatalf("unexpected %v", v)
	}
	if v := d.Root().GetTyped(KindString, "count"); v != nil {
		t.Fatalf("expected nil on kind mismatch, got %v", v)
	}
	if v := d.Root().GetTyped(KindInteger, "missing"); v != nil {
		t.Fatalf("expected nil on missing key, got %v", v)
	}
}

func TestEqualKeyOrder(t *testing.T) {
	d := New()
	a := d.Object()
	a.Object().Put("x", d.Integer(1))
	a.Object().Put("y", d.Integer(2))
	b := d.Object()
	b.Object().Put("y", d.Integer(2))
	b.Object().Put("x", d.Integer(1))
	if a.Equal(b) {
		t.Fatal("objects with different key order compared equal")
	}
	c := d.Object()
	c.Object().Put("x", d.Integer(1))
	c.Object().Put("y", d.Integer(2))
	if !a.Equal(c) {
		t.Fatal("identical objects compared unequal")
	}
}

type user struct {
	Email string
	Age   int
	Tags  []string
}

func (u user) Describe(d *Data) *Value {
	v := d.Object()
	o := v.Object()
	o.Put("email", d.String(u.Email))
	o.Put("age", d.Integer(int64(u.Age)))
	tags := d.Array()
	for _, tag := range u.Tags {
		tags.Array().Append(d.String(tag))
	}
	o.Put("tags", tags)
	return v
}

func TestDescribe(t *testing.T) {
	d := New()
	d.Put("user", d.Describe(user{Email: "u@e.com", Age: 7, Tags: []string{"a", "b"}}))
	v, err := d.Ref("user.tags.1")
	if err != nil {
		t.Fatal(err)
	}
	if v.ToString() != "b" {
		t.Fatalf("got %q, want %q", v.ToString(), "b")
	}
}
