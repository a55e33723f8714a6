// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"

	"github.com/apmanual/apworld/pkg/orderedmap"
)

// TypeName describes a parsed value for use in error messages.
func TypeName(val interface{}) string {
	switch val.(type) {
	case nil:
		return "null"
	case *orderedmap.Map:
		return "a mapping"
	case []interface{}:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, uint64, float64:
		return "a number"
	default:
		return fmt.Sprintf("%T", val)
	}
}
