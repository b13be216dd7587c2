// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ToJSON returns the canonical JSON encoding of the tree: compact, with
// object keys in insertion order. Datetime values encode as RFC 3339
// strings.
func (d *Data) ToJSON() string {
	return string(d.root.appendJSON(nil))
}

// ToJSON returns the canonical JSON encoding of the value.
func (v *Value) ToJSON() string {
	return string(v.appendJSON(nil))
}

func (v *Value) appendJSON(b []byte) []byte {
	if v == nil {
		return append(b, "null"...)
	}
	switch v.kind {
	case KindNull:
		b = append(b, "null"...)
	case KindBoolean:
		b = strconv.AppendBool(b, v.b)
	case KindInteger:
		b = strconv.AppendInt(b, v.n, 10)
	case KindFloat:
		n := len(b)
		b = strconv.AppendFloat(b, v.f, 'g', -1, 64)
		// A whole float must keep a fraction, otherwise it would
		// decode as an integer.
		if !bytes.ContainsAny(b[n:], ".eE") {
			b = append(b, '.', '0')
		}
	case KindString:
		b = appendJSONString(b, v.s)
	case KindDateTime:
		b = appendJSONString(b, v.t.Format(time.RFC3339))
	case KindObject:
		b = append(b, '{')
		for i, k := range v.o.Keys() {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendJSONString(b, k)
			b = append(b, ':')
			b = v.o.Get(k).appendJSON(b)
		}
		b = append(b, '}')
	case KindArray:
		b = append(b, '[')
		for i, item := range v.a.items {
			if i > 0 {
				b = append(b, ',')
			}
			b = item.appendJSON(b)
		}
		b = append(b, ']')
	}
	return b
}

const jsonHex = "0123456789abcdef"

func appendJSONString(b []byte, s string) []byte {
	b = append(b, '"')
	for _, r := range s {
		switch r {
		case '"':
			b = append(b, '\\', '"')
		case '\\':
			b = append(b, '\\', '\\')
		case '\n':
			b = append(b, '\\', 'n')
		case '\r':
			b = append(b, '\\', 'r')
		case '\t':
			b = append(b, '\\', 't')
		default:
			if r < 0x20 {
				b = append(b, '\\', 'u', '0', '0', jsonHex[r>>4], jsonHex[r&0xF])
			} else {
				b = utf8.AppendRune(b, r)
			}
		}
	}
	return append(b, '"')
}

// FromJSON replaces the tree with the decoded form of src. Numbers
// without a fraction or exponent decode as integers, the others as
// floats.
func (d *Data) FromJSON(src []byte) error {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	root, err := d.decodeJSON(dec)
	if err != nil {
		return err
	}
	// Reject trailing content after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("data: invalid JSON: unexpected content after value")
	}
	d.root = root
	return nil
}

func (d *Data) decodeJSON(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("data: invalid JSON: unexpected end of input")
		}
		return nil, fmt.Errorf("data: invalid JSON: %w", err)
	}
	return d.decodeJSONToken(dec, tok)
}

func (d *Data) decodeJSONToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return d.Null(), nil
	case bool:
		return d.Boolean(t), nil
	case string:
		return d.String(t), nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			n, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return d.Integer(n), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("data: invalid JSON number %q", s)
		}
		return d.Float(f), nil
	case json.Delim:
		switch t {
		case '{':
			value := d.Object()
			o := value.Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("data: invalid JSON: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("data: invalid JSON object key %v", keyTok)
				}
				element, err := d.decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				o.Put(key, element)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("data: invalid JSON: %w", err)
			}
			return value, nil
		case '[':
			value := d.Array()
			a := value.Array()
			for dec.More() {
				element, err := d.decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				a.Append(element)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("data: invalid JSON: %w", err)
			}
			return value, nil
		}
	}
	return nil, fmt.Errorf("data: invalid JSON token %v", tok)
}
