// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"errors"
	"testing"
)

func TestResolveRef(t *testing.T) {
	d := New()
	if err := d.FromJSON([]byte(`{"user":{"email":"u@e.com","roles":["admin","editor"]},"n":null}`)); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path string
		want string
	}{
		{"user.email", "u@e.com"},
		{"user.roles.0", "admin"},
		{"user.roles.1", "editor"},
		{"user.roles.2", ""},   // out of range
		{"user.roles.x", ""},   // non-numeric index
		{"user.missing", ""},   // missing leaf
		{"missing.leaf", ""},   // missing intermediate
		{"n.anything", ""},     // null intermediate
		{"", `{"user":{"email":"u@e.com","roles":["admin","editor"]},"n":null}`},
	}
	for _, tt := range tests {
		v, err := d.Ref(tt.path)
		if err != nil {
			t.Fatalf("%q: %v", tt.path, err)
		}
		if got := v.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolveRefThroughScalar(t *testing.T) {
	d := New()
	d.Put("name", d.String("x"))
	_, err := d.Ref("name.length")
	var refErr *RefError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *RefError, got %v", err)
	}
	if refErr.Segment != "length" || refErr.Kind != KindString {
		t.Fatalf("unexpected error detail: %+v", refErr)
	}
}
