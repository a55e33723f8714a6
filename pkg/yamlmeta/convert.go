// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"
	"math"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"gopkg.in/yaml.v3"
)

const mergeTag = "!!merge"

// nodeConverter turns yaml.v3 nodes into plain values: *orderedmap.Map,
// []interface{} and scalars.
type nodeConverter struct {
	parser *Parser
	// aliases currently being expanded; guards against self-referencing anchors
	expanding map[*yaml.Node]struct{}
}

func newNodeConverter(p *Parser) *nodeConverter {
	return &nodeConverter{parser: p, expanding: map[*yaml.Node]struct{}{}}
}

func (c *nodeConverter) convert(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return c.convert(node.Content[0])

	case yaml.MappingNode:
		return c.convertMap(node)

	case yaml.SequenceNode:
		result := make([]interface{}, 0, len(node.Content))
		for _, itemNode := range node.Content {
			item, err := c.convert(itemNode)
			if err != nil {
				return nil, err
			}
			result = append(result, item)
		}
		return result, nil

	case yaml.ScalarNode:
		return c.convertScalar(node)

	case yaml.AliasNode:
		if _, found := c.expanding[node.Alias]; found {
			return nil, errs.NewSyntaxError(c.parser.newPosition(node.Line), "Anchor '%s' refers to itself", node.Value)
		}
		c.expanding[node.Alias] = struct{}{}
		defer delete(c.expanding, node.Alias)
		return c.convert(node.Alias)

	default:
		return nil, errs.NewSyntaxError(c.parser.newPosition(node.Line), "Unexpected YAML node kind %d", node.Kind)
	}
}

func (c *nodeConverter) convertMap(node *yaml.Node) (interface{}, error) {
	result := orderedmap.NewMap()

	explicitKeys := map[string]struct{}{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if c.isMergeKey(keyNode) {
			continue
		}
		key, err := c.convertKey(keyNode)
		if err != nil {
			return nil, err
		}
		if _, found := explicitKeys[key]; found {
			return nil, errs.NewSyntaxError(c.parser.newPosition(keyNode.Line), "Duplicate mapping key '%s'", key)
		}
		explicitKeys[key] = struct{}{}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		if c.isMergeKey(keyNode) {
			sources, err := c.mergeSources(valNode)
			if err != nil {
				return nil, err
			}
			// Explicit keys win over merged ones; earlier sources win over later ones
			for _, source := range sources {
				source.Iterate(func(k string, v interface{}) {
					_, isExplicit := explicitKeys[k]
					if !isExplicit && !result.Has(k) {
						result.Set(k, v)
					}
				})
			}
			continue
		}

		key, err := c.convertKey(keyNode)
		if err != nil {
			return nil, err
		}
		val, err := c.convert(valNode)
		if err != nil {
			return nil, err
		}
		result.Set(key, val)
	}

	return result, nil
}

func (c *nodeConverter) isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == mergeTag
}

func (c *nodeConverter) mergeSources(node *yaml.Node) ([]*orderedmap.Map, error) {
	resolved := node
	for resolved.Kind == yaml.AliasNode {
		resolved = resolved.Alias
	}

	switch resolved.Kind {
	case yaml.MappingNode:
		val, err := c.convert(node)
		if err != nil {
			return nil, err
		}
		return []*orderedmap.Map{val.(*orderedmap.Map)}, nil

	case yaml.SequenceNode:
		var result []*orderedmap.Map
		for _, itemNode := range resolved.Content {
			resolvedItem := itemNode
			for resolvedItem.Kind == yaml.AliasNode {
				resolvedItem = resolvedItem.Alias
			}
			if resolvedItem.Kind != yaml.MappingNode {
				return nil, errs.NewSyntaxError(c.parser.newPosition(itemNode.Line), "Expected merge sequence to contain only mappings")
			}
			val, err := c.convert(itemNode)
			if err != nil {
				return nil, err
			}
			result = append(result, val.(*orderedmap.Map))
		}
		return result, nil

	default:
		return nil, errs.NewSyntaxError(c.parser.newPosition(node.Line), "Expected merge value to be a mapping or a sequence of mappings")
	}
}

func (c *nodeConverter) convertKey(node *yaml.Node) (string, error) {
	val, err := c.convert(node)
	if err != nil {
		return "", err
	}

	switch typedVal := val.(type) {
	case string:
		return typedVal, nil
	case nil:
		return "null", nil
	case *orderedmap.Map, []interface{}:
		return "", errs.NewSyntaxError(c.parser.newPosition(node.Line), "Expected mapping key to be a scalar")
	default:
		return fmt.Sprintf("%v", typedVal), nil
	}
}

func (c *nodeConverter) convertScalar(node *yaml.Node) (interface{}, error) {
	var val interface{}

	err := node.Decode(&val)
	if err != nil {
		return nil, errs.NewSyntaxError(c.parser.newPosition(node.Line), "%s", err)
	}

	switch typedVal := val.(type) {
	case float64:
		// JSON has no representation for these
		if math.IsNaN(typedVal) || math.IsInf(typedVal, 0) {
			return nil, nil
		}
	case []byte:
		return string(typedVal), nil
	}

	return val, nil
}
