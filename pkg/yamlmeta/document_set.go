// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"strings"

	"github.com/apmanual/apworld/pkg/filepos"
)

type OutputMode string

const (
	ModeDirect    OutputMode = "direct"
	ModeFlatten   OutputMode = "flatten"
	ModeLocations OutputMode = "locations"
	ModeOptions   OutputMode = "options"
)

var knownModes = []OutputMode{ModeDirect, ModeFlatten, ModeLocations, ModeOptions}

func ParseOutputMode(val string) (OutputMode, bool) {
	for _, mode := range knownModes {
		if strings.EqualFold(string(mode), val) {
			return mode, true
		}
	}
	return "", false
}

type DocumentSet struct {
	Items      []*Document
	Directives []*Directive

	// Schema is empty unless a schema directive was present
	Schema string
	Mode   OutputMode

	Position *filepos.Position
}

type Document struct {
	Value    interface{}
	Position *filepos.Position
}

func (d *DocumentSet) Len() int { return len(d.Items) }

func (d *DocumentSet) Values() []interface{} {
	result := make([]interface{}, 0, len(d.Items))
	for _, item := range d.Items {
		result = append(result, item.Value)
	}
	return result
}

func (d *DocumentSet) HasSchema() bool { return d.Schema != "" }
