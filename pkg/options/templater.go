// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package options

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/apmanual/apworld/pkg/accumulator"
	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/filepos"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
)

const descriptionKey = "description"

var (
	// Sections holding options; when none is present the whole
	// document is treated as a single section
	optionSections = []string{"core", "user"}

	placeholderRegexp = regexp.MustCompile(`(?i)\$\{([^{}]+)\}`)
)

type Templater struct {
	Usage *accumulator.TagUsage

	// Position identifies the source file for reference gaps
	Position *filepos.Position
}

type Result struct {
	Document *orderedmap.Map
	Gaps     []errs.ReferenceGap
}

// Template rewrites descriptions of doc in place and returns it.
// Usage must be frozen so that every count is final.
func (t Templater) Template(doc interface{}) (Result, error) {
	if !t.Usage.IsFrozen() {
		return Result{}, errs.NewStructuralError(t.Position, "Expected tag usage to be final before templating options").
			WithHint("compile location files first, then freeze tag usage")
	}

	docMap, ok := doc.(*orderedmap.Map)
	if !ok {
		return Result{}, errs.NewStructuralError(t.Position, "Expected options document to be a mapping, but was %s", yamlmeta.TypeName(doc))
	}

	var gaps []errs.ReferenceGap

	sections := t.sections(docMap)
	for _, section := range sections {
		err := section.IterateErr(func(name string, optionVal interface{}) error {
			option, ok := optionVal.(*orderedmap.Map)
			if !ok {
				return nil
			}
			optionGaps, err := t.templateOption(name, option)
			gaps = append(gaps, optionGaps...)
			return err
		})
		if err != nil {
			return Result{}, err
		}
	}

	return Result{Document: docMap, Gaps: gaps}, nil
}

func (t Templater) sections(doc *orderedmap.Map) []*orderedmap.Map {
	var result []*orderedmap.Map
	for _, key := range optionSections {
		if val, found := doc.Get(key); found {
			if section, ok := val.(*orderedmap.Map); ok {
				result = append(result, section)
			}
		}
	}
	if len(result) == 0 {
		return []*orderedmap.Map{doc}
	}
	return result
}

func (t Templater) templateOption(name string, option *orderedmap.Map) ([]errs.ReferenceGap, error) {
	descVal, found := option.Get(descriptionKey)
	if !found {
		return nil, nil
	}

	context := fmt.Sprintf("option '%s'", name)

	switch typedDesc := descVal.(type) {
	case string:
		result, gaps := t.Substitute(typedDesc, context)
		option.Set(descriptionKey, result)
		return gaps, nil

	case []interface{}:
		var allGaps []errs.ReferenceGap
		lines := make([]interface{}, 0, len(typedDesc))
		for i, line := range typedDesc {
			lineStr, ok := line.(string)
			if !ok {
				return nil, errs.NewStructuralError(t.Position,
					"Expected %s description line %d to be a string, but was %s", context, i, yamlmeta.TypeName(line))
			}
			result, gaps := t.Substitute(lineStr, context)
			lines = append(lines, result)
			allGaps = append(allGaps, gaps...)
		}
		option.Set(descriptionKey, lines)
		return allGaps, nil

	case nil:
		return nil, nil

	default:
		return nil, errs.NewStructuralError(t.Position,
			"Expected %s description to be a string or a list of strings, but was %s", context, yamlmeta.TypeName(descVal))
	}
}

// Substitute replaces each ${name} in text with the usage count of name.
func (t Templater) Substitute(text, context string) (string, []errs.ReferenceGap) {
	var gaps []errs.ReferenceGap

	result := placeholderRegexp.ReplaceAllStringFunc(text, func(placeholder string) string {
		name := placeholderRegexp.FindStringSubmatch(placeholder)[1]

		count, found := t.Usage.Get(name)
		if !found {
			gaps = append(gaps, errs.ReferenceGap{
				Position: t.Position,
				Kind:     "placeholder",
				Name:     name,
				Context:  context,
			})
			return placeholder
		}
		return strconv.Itoa(count)
	})

	return result, gaps
}
