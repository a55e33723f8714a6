// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package flatten

import (
	"github.com/apmanual/apworld/pkg/orderedmap"
)

// PlainMerge returns a new map with right merged over left: nested maps are
// merged recursively, arrays and scalars from right replace those of left.
// Neither argument is modified.
func PlainMerge(left, right *orderedmap.Map) *orderedmap.Map {
	var result *orderedmap.Map
	if left == nil {
		result = orderedmap.NewMap()
	} else {
		result = left.DeepCopy()
	}
	if right == nil {
		return result
	}

	right.Iterate(func(k string, rightVal interface{}) {
		leftVal, found := result.Get(k)
		if found {
			leftMap, leftIsMap := leftVal.(*orderedmap.Map)
			rightMap, rightIsMap := rightVal.(*orderedmap.Map)
			if leftIsMap && rightIsMap {
				result.Set(k, PlainMerge(leftMap, rightMap))
				return
			}
		}
		result.Set(k, orderedmap.DeepCopyValue(rightVal))
	})

	return result
}
