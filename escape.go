// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zmpl

import "github.com/jetzig-framework/zmpl/internal/runtime"

// HTMLEscape escapes s for inclusion in HTML text and attribute
// values. It is the sanitizer applied to shown values unless the build
// sets NoEscape.
func HTMLEscape(s string) string { return runtime.HTMLEscape(s) }
