// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package locations

import (
	"fmt"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
)

type TagDefinition struct {
	Name     string
	Requires interface{}
	Category []interface{}
	// Aliases are further tags counted whenever this tag is applied
	Aliases []string
}

type TagDictionary struct {
	tags map[string]*TagDefinition
}

func NewTagDictionary(defs ...*TagDefinition) *TagDictionary {
	dict := &TagDictionary{tags: map[string]*TagDefinition{}}
	for _, def := range defs {
		dict.tags[def.Name] = def
	}
	return dict
}

// NewTagDictionaryFromDocument reads a mapping of tag name to definition.
// A null document or a null definition is allowed.
func NewTagDictionaryFromDocument(doc interface{}) (*TagDictionary, error) {
	dict := NewTagDictionary()
	if doc == nil {
		return dict, nil
	}

	docMap, ok := doc.(*orderedmap.Map)
	if !ok {
		return nil, errs.NewStructuralError(nil, "Expected tag dictionary to be a mapping, but was %s", yamlmeta.TypeName(doc))
	}

	err := docMap.IterateErr(func(name string, val interface{}) error {
		def := &TagDefinition{Name: name}

		switch typedVal := val.(type) {
		case nil:
		case *orderedmap.Map:
			def.Requires, _ = typedVal.Get(requiresKey)

			categoryVal, _ := typedVal.Get(categoryKey)
			def.Category = asList(categoryVal)

			aliasesVal, _ := typedVal.Get(tagsKey)
			aliases, err := asNames(aliasesVal)
			if err != nil {
				return errs.NewStructuralError(nil, "Tag '%s': %s", name, err)
			}
			def.Aliases = aliases

		default:
			return errs.NewStructuralError(nil, "Expected tag '%s' to be a mapping, but was %s", name, yamlmeta.TypeName(val))
		}

		dict.tags[name] = def
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dict, nil
}

func (d *TagDictionary) Get(name string) (*TagDefinition, bool) {
	def, found := d.tags[name]
	return def, found
}

func (d *TagDictionary) Len() int { return len(d.tags) }

// asNames accepts a single name or a list of names.
func asNames(val interface{}) ([]string, error) {
	var result []string
	for _, item := range asList(val) {
		switch typedItem := item.(type) {
		case string:
			result = append(result, typedItem)
		case *orderedmap.Map, []interface{}, nil:
			return nil, fmt.Errorf("Expected tag names to be scalars, but found %s", yamlmeta.TypeName(item))
		default:
			result = append(result, fmt.Sprintf("%v", typedItem))
		}
	}
	return result, nil
}

// asList wraps a scalar into a single item list; null becomes an empty list.
func asList(val interface{}) []interface{} {
	switch typedVal := val.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return append([]interface{}{}, typedVal...)
	default:
		return []interface{}{typedVal}
	}
}

func isTruthy(val interface{}) bool {
	switch typedVal := val.(type) {
	case nil:
		return false
	case bool:
		return typedVal
	case string:
		return typedVal != ""
	case int:
		return typedVal != 0
	case int64:
		return typedVal != 0
	case uint64:
		return typedVal != 0
	case float64:
		return typedVal != 0
	default:
		return true
	}
}
