// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package locations

import (
	"fmt"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
)

const (
	nameKey     = "name"
	tagsKey     = "t"
	requiresKey = "requires"
	categoryKey = "category"
	regionKey   = "region"
	trackKey    = "track"
	checksKey   = "checks"
)

// Entry is either a *Track or a *Check.
type Entry interface {
	sealed()
}

var _ = []Entry{&Track{}, &Check{}}

// Track applies a shared template (name prefix, categories, region)
// to a batch of checks.
type Track struct {
	Template *orderedmap.Map
	// Region is an inline region definition (*orderedmap.Map),
	// a region name (string), or nil
	Region interface{}
	Checks []*Check
	Path   string
}

// Check is a single location. Fields are kept as written.
type Check struct {
	Fields *orderedmap.Map
	Path   string
}

func (*Track) sealed() {}
func (*Check) sealed() {}

// ParseEntries reads the location tree. Entries with a mapping under "track"
// are tracks; every other mapping is a check. Inputs are copied, not shared.
func ParseEntries(doc interface{}) ([]Entry, error) {
	if doc == nil {
		return nil, nil
	}

	items, ok := doc.([]interface{})
	if !ok {
		return nil, errs.NewStructuralError(nil, "Expected location tree to be a list, but was %s", yamlmeta.TypeName(doc))
	}

	var entries []Entry

	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)

		itemMap, ok := item.(*orderedmap.Map)
		if !ok {
			return nil, errs.NewStructuralError(nil, "Expected location %s to be a mapping, but was %s", path, yamlmeta.TypeName(item))
		}

		trackVal, _ := itemMap.Get(trackKey)
		if trackMap, isTrack := trackVal.(*orderedmap.Map); isTrack {
			track, err := parseTrack(itemMap, trackMap, path)
			if err != nil {
				return nil, err
			}
			entries = append(entries, track)
			continue
		}

		entries = append(entries, &Check{Fields: itemMap.DeepCopy(), Path: path})
	}

	return entries, nil
}

func parseTrack(container, template *orderedmap.Map, path string) (*Track, error) {
	track := &Track{Template: template.DeepCopy(), Path: path}

	regionVal, _ := container.Get(regionKey)
	switch typedVal := regionVal.(type) {
	case nil:
	case string:
		track.Region = typedVal
	case *orderedmap.Map:
		track.Region = typedVal.DeepCopy()
	default:
		return nil, errs.NewStructuralError(nil,
			"Expected track %s region to be a mapping or a name, but was %s", path, yamlmeta.TypeName(regionVal))
	}

	checksVal, _ := container.Get(checksKey)
	switch typedVal := checksVal.(type) {
	case nil:
	case []interface{}:
		for i, item := range typedVal {
			checkPath := fmt.Sprintf("%s.%s[%d]", path, checksKey, i)

			itemMap, ok := item.(*orderedmap.Map)
			if !ok {
				return nil, errs.NewStructuralError(nil,
					"Expected check %s to be a mapping, but was %s", checkPath, yamlmeta.TypeName(item))
			}
			track.Checks = append(track.Checks, &Check{Fields: itemMap.DeepCopy(), Path: checkPath})
		}
	default:
		return nil, errs.NewStructuralError(nil,
			"Expected track %s checks to be a list, but was %s", path, yamlmeta.TypeName(checksVal))
	}

	return track, nil
}

func (c *Check) Name() (string, bool) {
	val, found := c.Fields.Get(nameKey)
	if !found || val == nil {
		return "", false
	}
	return fmt.Sprintf("%v", val), true
}

func (c *Check) describe() string {
	if name, ok := c.Name(); ok {
		return fmt.Sprintf("check '%s'", name)
	}
	return "check " + c.Path
}
