// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zmpl compiles and renders hybrid-syntax templates: files
// mixing literal markup, a line-oriented directive language and
// markdown regions.
//
// A template file starts in markup mode, or in markdown mode when its
// name ends in ".md.zmpl". Lines whose first non-space character
// starts a directive switch interpretation:
//
//	@args name: string, count: integer = 0
//	@if ($.user) |user|
//	  <span>{{ user.email }}</span>
//	@else
//	  <span>anonymous</span>
//	@end
//	@for ($.items) |item, i| {
//	  <li>{{ item }}</li>
//	}
//	@partial card(title: "Hi") { <b>slot</b> }
//	@markdown {
//	  # Heading
//	}
//
// Values interpolate with {{ expr }}, HTML escaped, or {{{ expr }}}
// raw. References resolve against the render's data tree ($.path) or
// against names bound by @if, @for, @args and slots.
//
// Build compiles a file and its partials from an fs.FS into a
// Manifest; Template.Render executes the compiled routine against a
// data.Data tree. Layout composition wraps a rendered body in one or
// more layout templates, binding it to the reserved content name.
package zmpl
