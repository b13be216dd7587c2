// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromYAML(t *testing.T) {
	d := New()
	err := d.FromYAML([]byte(`
zebra: 1
apple:
  nested: [a, 2, 2.5, true, null]
count: 3
`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"zebra", "apple", "count"}, d.Root().Object().Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	v, err := d.Ref("apple.nested.2")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindFloat || v.ToFloat() != 2.5 {
		t.Fatalf("unexpected %v (%s)", v, v.Kind())
	}
	if v, _ := d.Ref("apple.nested.4"); !v.IsNull() {
		t.Fatalf("expected null, got %v", v)
	}
	if v, _ := d.Ref("apple.nested.3"); v.Kind() != KindBoolean || !v.ToBoolean() {
		t.Fatalf("unexpected %v (%s)", v, v.Kind())
	}
}

func TestFromYAMLInvalid(t *testing.T) {
	d := New()
	if err := d.FromYAML([]byte("a: [unclosed")); err == nil {
		t.Fatal("expected error")
	}
}
