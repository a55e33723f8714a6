// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package locations

import (
	"fmt"
	"strings"

	"github.com/apmanual/apworld/pkg/accumulator"
	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/filepos"
	"github.com/apmanual/apworld/pkg/orderedmap"
)

const (
	requiresConnective = " and "
	trackNameSeparator = " - "
)

type Expander struct {
	Tags    *TagDictionary
	Usage   *accumulator.TagUsage
	Regions *accumulator.Regions

	// Position identifies the source file for regions and reference gaps
	Position *filepos.Position
}

type Result struct {
	Checks []interface{}
	Gaps   []errs.ReferenceGap
}

// ExpandDocuments expands a tag dictionary document and a location tree document.
func (e Expander) ExpandDocuments(tagsDoc, locationsDoc interface{}) (Result, error) {
	tags, err := NewTagDictionaryFromDocument(tagsDoc)
	if err != nil {
		return Result{}, err
	}
	entries, err := ParseEntries(locationsDoc)
	if err != nil {
		return Result{}, err
	}
	e.Tags = tags
	return e.Expand(entries)
}

func (e Expander) Expand(entries []Entry) (Result, error) {
	result := Result{Checks: []interface{}{}}

	for _, entry := range entries {
		var checks []*Check

		switch typedEntry := entry.(type) {
		case *Track:
			decorated, err := e.decorateTrack(typedEntry)
			if err != nil {
				return Result{}, err
			}
			checks = decorated
		case *Check:
			checks = []*Check{typedEntry}
		default:
			panic(fmt.Sprintf("Unknown location entry type %T", entry))
		}

		for _, check := range checks {
			gaps, err := e.applyTags(check)
			if err != nil {
				return Result{}, err
			}
			result.Gaps = append(result.Gaps, gaps...)
			result.Checks = append(result.Checks, check.Fields)
		}
	}

	return result, nil
}

// decorateTrack registers the track's inline region and applies the track
// template (name prefix, categories, region) to each of its checks.
func (e Expander) decorateTrack(track *Track) ([]*Check, error) {
	switch typedRegion := track.Region.(type) {
	case *orderedmap.Map:
		name, err := e.registerRegion(typedRegion, track.Path)
		if err != nil {
			return nil, err
		}
		e.defaultField(track.Template, regionKey, name)
	case string:
		e.defaultField(track.Template, regionKey, typedRegion)
	}

	trackName, hasTrackName := track.Template.Get(nameKey)
	hasTrackName = hasTrackName && trackName != nil
	trackCategoryVal, hasTrackCategory := track.Template.Get(categoryKey)
	trackRegion, _ := track.Template.Get(regionKey)

	for _, check := range track.Checks {
		if checkName, found := check.Fields.Get(nameKey); found && checkName != nil && hasTrackName {
			check.Fields.Set(nameKey, fmt.Sprintf("%v%s%v", trackName, trackNameSeparator, checkName))
		}

		if hasTrackCategory {
			checkCategoryVal, _ := check.Fields.Get(categoryKey)
			category := append(asList(orderedmap.DeepCopyValue(trackCategoryVal)), asList(checkCategoryVal)...)
			check.Fields.Set(categoryKey, category)
		}

		if trackRegion != nil {
			e.defaultField(check.Fields, regionKey, trackRegion)
		}
	}

	return track.Checks, nil
}

func (e Expander) registerRegion(region *orderedmap.Map, path string) (string, error) {
	nameVal, _ := region.Get(nameKey)
	name, ok := nameVal.(string)
	if !ok || name == "" {
		return "", errs.NewStructuralError(e.Position, "Expected track %s region to have a name", path)
	}

	region.Delete(nameKey)

	err := e.Regions.Register(name, region, e.Position)
	if err != nil {
		return "", err
	}
	return name, nil
}

func (Expander) defaultField(fields *orderedmap.Map, key string, val interface{}) {
	if existing, found := fields.Get(key); !found || existing == nil {
		fields.Set(key, val)
	}
}

// applyTags resolves the check's "t" list into requires and category.
// Checks without "t" are left untouched.
func (e Expander) applyTags(check *Check) ([]errs.ReferenceGap, error) {
	tagsVal, hasTags := check.Fields.Get(tagsKey)
	if !hasTags {
		return nil, nil
	}

	tagNames, err := asNames(tagsVal)
	if err != nil {
		return nil, errs.NewStructuralError(e.Position, "In %s: %s", check.describe(), err)
	}

	var requires []interface{}
	requiresVal, _ := check.Fields.Get(requiresKey)
	for _, clause := range asList(requiresVal) {
		if isTruthy(clause) {
			requires = append(requires, clause)
		}
	}

	categoryVal, _ := check.Fields.Get(categoryKey)
	category := asList(categoryVal)

	var gaps []errs.ReferenceGap

	for _, tagName := range tagNames {
		err := e.Usage.Inc(tagName)
		if err != nil {
			return nil, err
		}

		def, found := e.Tags.Get(tagName)
		if !found {
			gaps = append(gaps, errs.ReferenceGap{
				Position: e.Position,
				Kind:     "tag",
				Name:     tagName,
				Context:  check.describe(),
			})
			continue
		}

		if isTruthy(def.Requires) {
			requires = append(requires, def.Requires)
		}
		for _, item := range asList(def.Category) {
			category = append(category, orderedmap.DeepCopyValue(item))
		}

		for _, alias := range def.Aliases {
			err := e.Usage.Inc(alias)
			if err != nil {
				return nil, err
			}
		}
	}

	check.Fields.Delete(tagsKey)
	check.Fields.Set(categoryKey, category)

	joined := joinRequires(requires)
	if joined == "" {
		check.Fields.Delete(requiresKey)
	} else {
		check.Fields.Set(requiresKey, joined)
	}

	return gaps, nil
}

func joinRequires(clauses []interface{}) string {
	var strs []string
	for _, clause := range clauses {
		strs = append(strs, fmt.Sprintf("%v", clause))
	}
	return strings.Join(strs, requiresConnective)
}
