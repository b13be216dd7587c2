// Copyright 2026 The Zmpl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML replaces the tree with the decoded form of a YAML document.
// Mapping keys keep their document order. Scalars map to the closest
// value kind: booleans, integers, floats and strings; explicit nulls
// map to null.
func (d *Data) FromYAML(src []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return fmt.Errorf("data: invalid YAML: %w", err)
	}
	node := &doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			d.root = d.Null()
			return nil
		}
		node = node.Content[0]
	}
	root, err := d.decodeYAML(node)
	if err != nil {
		return err
	}
	d.root = root
	return nil
}

func (d *Data) decodeYAML(node *yaml.Node) (*Value, error) {
	switch node.Kind {
	case yaml.MappingNode:
		value := d.Object()
		o := value.Object()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("data: YAML mapping key at line %d is not a scalar", keyNode.Line)
			}
			element, err := d.decodeYAML(valueNode)
			if err != nil {
				return nil, err
			}
			o.Put(keyNode.Value, element)
		}
		return value, nil
	case yaml.SequenceNode:
		value := d.Array()
		a := value.Array()
		for _, item := range node.Content {
			element, err := d.decodeYAML(item)
			if err != nil {
				return nil, err
			}
			a.Append(element)
		}
		return value, nil
	case yaml.AliasNode:
		return d.decodeYAML(node.Alias)
	case yaml.ScalarNode:
		return d.decodeYAMLScalar(node), nil
	}
	return nil, fmt.Errorf("data: unsupported YAML node at line %d", node.Line)
}

func (d *Data) decodeYAMLScalar(node *yaml.Node) *Value {
	switch node.Tag {
	case "!!null":
		return d.Null()
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err == nil {
			return d.Boolean(b)
		}
	case "!!int":
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err == nil {
			return d.Integer(n)
		}
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err == nil {
			return d.Float(f)
		}
	}
	return d.String(node.Value)
}
