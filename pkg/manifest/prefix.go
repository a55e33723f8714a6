// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"strings"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
)

const (
	GameFileName  = "game.yml"
	undefinedPart = "undefined"
)

var DefaultPrefix = NewPrefix(undefinedPart, undefinedPart)

func NewPrefix(game, creator string) string {
	return strings.ToLower(fmt.Sprintf("manual_%s_%s", game, creator))
}

// PrefixFromGame reads game and creator from a game.yml document.
// Missing values are spelled "undefined".
func PrefixFromGame(data []byte, associatedName string) (string, error) {
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{IgnoreDirectives: true}).ParseBytes(data, associatedName)
	if err != nil {
		return "", err
	}
	if docSet.Len() == 0 {
		return DefaultPrefix, nil
	}

	doc := docSet.Items[0]

	var gameDoc *orderedmap.Map
	switch typedVal := doc.Value.(type) {
	case nil:
		return DefaultPrefix, nil
	case *orderedmap.Map:
		gameDoc = typedVal
	default:
		return "", errs.NewStructuralError(doc.Position,
			"Expected game document to be a mapping, but was %s", yamlmeta.TypeName(doc.Value))
	}

	return NewPrefix(prefixPart(gameDoc, "game"), prefixPart(gameDoc, "creator")), nil
}

func prefixPart(gameDoc *orderedmap.Map, key string) string {
	val, found := gameDoc.Get(key)
	if !found || val == nil {
		return undefinedPart
	}
	return fmt.Sprintf("%v", val)
}
