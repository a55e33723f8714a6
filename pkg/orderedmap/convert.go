// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"fmt"
	"sort"
)

type Conversion struct {
	Object interface{}
}

func (c Conversion) AsUnorderedStringMaps() interface{} {
	return c.asUnorderedStringMaps(c.Object)
}

func (c Conversion) asUnorderedStringMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case *Map:
		result := map[string]interface{}{}
		typedObj.Iterate(func(k string, v interface{}) {
			result[k] = c.asUnorderedStringMaps(v)
		})
		return result

	case []interface{}:
		result := make([]interface{}, 0, len(typedObj))
		for _, item := range typedObj {
			result = append(result, c.asUnorderedStringMaps(item))
		}
		return result

	default:
		return typedObj
	}
}

// FromUnorderedMaps converts native maps (eg from encoding/json) into *Map
// with keys sorted, so that output stays deterministic.
func (c Conversion) FromUnorderedMaps() interface{} {
	return c.fromUnorderedMaps(c.Object)
}

func (c Conversion) fromUnorderedMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case map[interface{}]interface{}:
		result := NewMap()
		keys := map[string]interface{}{}
		for k, v := range typedObj {
			keys[fmt.Sprintf("%v", k)] = v
		}
		for _, key := range c.sortedKeys(keys) {
			result.Set(key, c.fromUnorderedMaps(keys[key]))
		}
		return result

	case map[string]interface{}:
		result := NewMap()
		for _, key := range c.sortedKeys(typedObj) {
			result.Set(key, c.fromUnorderedMaps(typedObj[key]))
		}
		return result

	case *Map:
		panic("Expected native map instead of *orderedmap.Map in fromUnorderedMaps")

	case []interface{}:
		result := make([]interface{}, 0, len(typedObj))
		for _, item := range typedObj {
			result = append(result, c.fromUnorderedMaps(item))
		}
		return result

	default:
		return typedObj
	}
}

func (Conversion) sortedKeys(m map[string]interface{}) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
