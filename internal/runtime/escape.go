// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// HTMLEscape escapes s, replacing the characters <, >, &, " and ', and
// returns the escaped string. It is the default sanitizer of Env.
func HTMLEscape(s string) string {
	n := 0
	j := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '&':
			n += 4
		case '<', '>':
			n += 3
		default:
			continue
		}
		if n <= 4 {
			j = i
		}
	}
	if n == 0 {
		return s
	}
	b := make([]byte, len(s)+n)
	if j > 0 {
		copy(b[:j], s[:j])
	}
	for i := j; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			copy(b[j:], "&#34;")
			j += 5
		case '\'':
			copy(b[j:], "&#39;")
			j += 5
		case '&':
			copy(b[j:], "&amp;")
			j += 5
		case '<':
			copy(b[j:], "&lt;")
			j += 4
		case '>':
			copy(b[j:], "&gt;")
			j += 4
		default:
			b[j] = c
			j++
			continue
		}
		if j == i+n {
			copy(b[j:], s[i:])
			break
		}
	}
	return string(b)
}
