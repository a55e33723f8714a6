// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package flatten_test

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/flatten"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, data string) interface{} {
	t.Helper()
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(data), "items.yml")
	require.NoError(t, err)
	require.Equal(t, 1, docSet.Len())
	return docSet.Items[0].Value
}

func toJSON(t *testing.T, val interface{}) string {
	t.Helper()
	bs, err := json.Marshal(val)
	require.NoError(t, err)
	return string(bs)
}

func TestFlattenNestedGroups(t *testing.T) {
	doc := parseDoc(t, `
- name: Loose
- common:
    category: [Weapons]
    meta: {tier: 1, rare: false}
  data:
  - name: Sword
    meta: {rare: true}
  - common:
      count: 2
      category: [Ammo]
    data:
    - name: Arrow
    - name: Bolt
      count: 5
- name: Last
`)

	result, err := flatten.FlattenDocument(doc)
	require.NoError(t, err)

	require.Equal(t, `[`+
		`{"name":"Loose"},`+
		`{"category":["Weapons"],"meta":{"tier":1,"rare":true},"name":"Sword"},`+
		`{"category":["Ammo"],"meta":{"tier":1,"rare":false},"count":2,"name":"Arrow"},`+
		`{"category":["Ammo"],"meta":{"tier":1,"rare":false},"count":5,"name":"Bolt"},`+
		`{"name":"Last"}]`, toJSON(t, result))
}

func TestFlattenDoesNotMutateInput(t *testing.T) {
	doc := parseDoc(t, `
- common: {meta: {tier: 1}}
  data:
  - name: Sword
    meta: {rare: true}
`)
	before := toJSON(t, doc)

	_, err := flatten.FlattenDocument(doc)
	require.NoError(t, err)
	require.Equal(t, before, toJSON(t, doc))
}

func TestFlattenWithInheritedCommon(t *testing.T) {
	inherited := orderedmap.NewMap()
	inherited.Set("game", "demo")

	result, err := flatten.Flatten([]interface{}{orderedmap.NewMap()}, inherited)
	require.NoError(t, err)
	require.Equal(t, `[{"game":"demo"}]`, toJSON(t, result))
}

func TestFlattenOnlyCommonOrDataIsLeaf(t *testing.T) {
	doc := parseDoc(t, `
- name: A
  data: [1, 2]
- name: B
  common: x
`)
	result, err := flatten.FlattenDocument(doc)
	require.NoError(t, err)
	require.Equal(t, `[{"name":"A","data":[1,2]},{"name":"B","common":"x"}]`, toJSON(t, result))
}

func TestFlattenEmptyGroup(t *testing.T) {
	result, err := flatten.FlattenDocument(parseDoc(t, "- {common: ~, data: ~}\n- {common: {a: 1}, data: []}\n"))
	require.NoError(t, err)
	require.Equal(t, `[]`, toJSON(t, result))
}

func TestFlattenMalformed(t *testing.T) {
	cases := map[string]string{
		"- common: [1]\n  data: []\n":                "Structural error: Expected group [0] 'common' to be a mapping, but was a list",
		"- common: {}\n  data: {a: 1}\n":             "Structural error: Expected group [0] 'data' to be a list, but was a mapping",
		"- common: {}\n  data:\n  - name: a\n  - 3\n": "Structural error: Expected item [0].data[1] to be a mapping, but was a number",
		"name: not-a-list\n":                         "Structural error: Expected document to be a list of items, but was a mapping",
	}

	for data, expectedErr := range cases {
		_, err := flatten.FlattenDocument(parseDoc(t, data))
		require.EqualError(t, err, expectedErr)

		var structErr *errs.StructuralError
		require.True(t, errors.As(err, &structErr))
	}
}

// fuzzNode is a random tree: nodes without children become leaves,
// nodes with children become groups whose common is Fields.
type fuzzNode struct {
	Fields   map[string]string
	Children []fuzzNode
}

func (n fuzzNode) asItem() interface{} {
	fields := orderedmap.NewMap()
	var keys []string
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields.Set(k, n.Fields[k])
	}

	if len(n.Children) == 0 {
		return fields
	}

	var data []interface{}
	for _, child := range n.Children {
		data = append(data, child.asItem())
	}
	group := orderedmap.NewMap()
	group.Set("common", fields)
	group.Set("data", data)
	return group
}

// inlineTopGroups pushes each top-level group's common into its children,
// removing one level of nesting.
func inlineTopGroups(items []interface{}) []interface{} {
	var result []interface{}
	for _, item := range items {
		itemMap := item.(*orderedmap.Map)
		commonVal, isGroup := itemMap.Get("common")
		if !isGroup {
			result = append(result, itemMap)
			continue
		}
		common := commonVal.(*orderedmap.Map)
		dataVal, _ := itemMap.Get("data")

		for _, child := range dataVal.([]interface{}) {
			childMap := child.(*orderedmap.Map)
			if childCommon, childIsGroup := childMap.Get("common"); childIsGroup {
				childData, _ := childMap.Get("data")
				group := orderedmap.NewMap()
				group.Set("common", flatten.PlainMerge(common, childCommon.(*orderedmap.Map)))
				group.Set("data", childData)
				result = append(result, group)
			} else {
				result = append(result, flatten.PlainMerge(common, childMap))
			}
		}
	}
	return result
}

func TestFlattenInliningOneLevelIsEquivalent(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		fuzzer := fuzz.New().RandSource(rand.NewSource(seed)).NilChance(0).NumElements(0, 3).MaxDepth(6).Funcs(
			func(fields *map[string]string, c fuzz.Continue) {
				*fields = map[string]string{}
				num := c.Intn(4)
				for i := 0; i < num; i++ {
					(*fields)[string(rune('a'+c.Intn(4)))] = c.RandString()
				}
			},
		)

		var roots []fuzzNode
		fuzzer.Fuzz(&roots)

		var items []interface{}
		for _, root := range roots {
			items = append(items, root.asItem())
		}

		expected, err := flatten.Flatten(items, nil)
		require.NoError(t, err)

		actual, err := flatten.Flatten(inlineTopGroups(items), nil)
		require.NoError(t, err)

		require.Equal(t, toJSON(t, expected), toJSON(t, actual), "seed %d", seed)
	}
}
