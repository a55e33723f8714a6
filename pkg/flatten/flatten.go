// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package flatten

import (
	"fmt"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
)

const (
	groupCommonKey = "common"
	groupDataKey   = "data"
)

// Flatten resolves items (see package docs) against inherited, which may be nil.
func Flatten(items []interface{}, inherited *orderedmap.Map) ([]interface{}, error) {
	result := []interface{}{}
	err := flattenInto(&result, items, inherited, "")
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FlattenDocument is Flatten for a whole document, which must be a list.
func FlattenDocument(doc interface{}) ([]interface{}, error) {
	items, ok := doc.([]interface{})
	if !ok {
		return nil, errs.NewStructuralError(nil, "Expected document to be a list of items, but was %s", yamlmeta.TypeName(doc))
	}
	return Flatten(items, nil)
}

func flattenInto(result *[]interface{}, items []interface{}, inherited *orderedmap.Map, path string) error {
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)

		itemMap, ok := item.(*orderedmap.Map)
		if !ok {
			return errs.NewStructuralError(nil, "Expected item %s to be a mapping, but was %s", itemPath, yamlmeta.TypeName(item))
		}

		common, data, isGroup, err := asGroup(itemMap, itemPath)
		if err != nil {
			return err
		}

		if isGroup {
			err := flattenInto(result, data, PlainMerge(inherited, common), itemPath+"."+groupDataKey)
			if err != nil {
				return err
			}
			continue
		}

		*result = append(*result, PlainMerge(inherited, itemMap))
	}
	return nil
}

// asGroup reports whether item has both "common" and "data" keys.
func asGroup(item *orderedmap.Map, path string) (*orderedmap.Map, []interface{}, bool, error) {
	commonVal, hasCommon := item.Get(groupCommonKey)
	dataVal, hasData := item.Get(groupDataKey)
	if !hasCommon || !hasData {
		return nil, nil, false, nil
	}

	var common *orderedmap.Map
	switch typedVal := commonVal.(type) {
	case nil:
	case *orderedmap.Map:
		common = typedVal
	default:
		return nil, nil, false, errs.NewStructuralError(nil,
			"Expected group %s '%s' to be a mapping, but was %s", path, groupCommonKey, yamlmeta.TypeName(commonVal))
	}

	var data []interface{}
	switch typedVal := dataVal.(type) {
	case nil:
	case []interface{}:
		data = typedVal
	default:
		return nil, nil, false, errs.NewStructuralError(nil,
			"Expected group %s '%s' to be a list, but was %s", path, groupDataKey, yamlmeta.TypeName(dataVal))
	}

	return common, data, true, nil
}
