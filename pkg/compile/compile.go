// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package compile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apmanual/apworld/pkg/accumulator"
	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/flatten"
	"github.com/apmanual/apworld/pkg/locations"
	"github.com/apmanual/apworld/pkg/options"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
)

const (
	SchemaKey = "$schema"
	DataKey   = "data"
)

var expectedDocCounts = map[yamlmeta.OutputMode]int{
	yamlmeta.ModeDirect:    1,
	yamlmeta.ModeFlatten:   1,
	yamlmeta.ModeOptions:   1,
	yamlmeta.ModeLocations: 2,
}

// State holds accumulators shared by every compile within one build.
type State struct {
	Usage   *accumulator.TagUsage
	Regions *accumulator.Regions
}

func NewState() State {
	return State{Usage: accumulator.NewTagUsage(), Regions: accumulator.NewRegions()}
}

type Result struct {
	Value interface{}
	Gaps  []errs.ReferenceGap
}

func Dispatch(docSet *yamlmeta.DocumentSet, state State) (Result, error) {
	result, err := dispatch(docSet, state)
	if err != nil {
		return Result{}, withPosition(err, docSet)
	}
	return result, nil
}

func dispatch(docSet *yamlmeta.DocumentSet, state State) (Result, error) {
	expected, found := expectedDocCounts[docSet.Mode]
	if !found {
		return Result{}, errs.NewStructuralError(docSet.Position, "Unknown output mode '%s'", docSet.Mode)
	}
	if docSet.Len() != expected {
		return Result{}, errs.NewDocumentCountError(docSet.Position, string(docSet.Mode), expected, docSet.Len())
	}

	docs := docSet.Values()

	switch docSet.Mode {
	case yamlmeta.ModeDirect:
		return Result{Value: attachSchema(docs[0], docSet.Schema)}, nil

	case yamlmeta.ModeFlatten:
		items, err := flatten.FlattenDocument(docs[0])
		if err != nil {
			return Result{}, err
		}
		return Result{Value: items}, nil

	case yamlmeta.ModeLocations:
		expander := locations.Expander{
			Usage:    state.Usage,
			Regions:  state.Regions,
			Position: docSet.Position,
		}
		expanded, err := expander.ExpandDocuments(docs[0], docs[1])
		if err != nil {
			return Result{}, err
		}
		return Result{Value: expanded.Checks, Gaps: expanded.Gaps}, nil

	case yamlmeta.ModeOptions:
		templater := options.Templater{Usage: state.Usage, Position: docSet.Position}
		templated, err := templater.Template(docs[0])
		if err != nil {
			return Result{}, err
		}
		return Result{Value: attachSchema(templated.Document, docSet.Schema), Gaps: templated.Gaps}, nil

	default:
		panic("Unreachable")
	}
}

// attachSchema puts schema first in a mapping document. Sequences are
// wrapped under "data" only when there is a schema to attach.
func attachSchema(doc interface{}, schema string) interface{} {
	if schema == "" {
		return doc
	}

	switch typedDoc := doc.(type) {
	case *orderedmap.Map:
		typedDoc.SetFirst(SchemaKey, schema)
		return typedDoc
	case []interface{}:
		return orderedmap.NewMapWithItems([]orderedmap.MapItem{
			{Key: SchemaKey, Value: schema},
			{Key: DataKey, Value: typedDoc},
		})
	default:
		return doc
	}
}

// withPosition fills in the file position for errors raised by engines
// that do not know which file they operate on.
func withPosition(err error, docSet *yamlmeta.DocumentSet) error {
	var structErr *errs.StructuralError
	if errors.As(err, &structErr) && structErr.Position == nil {
		structErr.Position = docSet.Position
	}
	return err
}

// AsJSON encodes the compiled value with 4-space indentation.
func (r Result) AsJSON() ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	err := enc.Encode(r.Value)
	if err != nil {
		return nil, fmt.Errorf("Encoding JSON: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
