// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package locations_test

import (
	"encoding/json"
	"testing"

	"github.com/apmanual/apworld/pkg/accumulator"
	"github.com/apmanual/apworld/pkg/filepos"
	"github.com/apmanual/apworld/pkg/locations"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expandFixture struct {
	usage    *accumulator.TagUsage
	regions  *accumulator.Regions
	expander locations.Expander
}

func newExpandFixture() expandFixture {
	usage := accumulator.NewTagUsage()
	regions := accumulator.NewRegions()
	return expandFixture{
		usage:   usage,
		regions: regions,
		expander: locations.Expander{
			Usage:    usage,
			Regions:  regions,
			Position: filepos.NewUnknownPositionInFile("locations.yml"),
		},
	}
}

func (f expandFixture) expand(t *testing.T, data string) locations.Result {
	t.Helper()
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(data), "locations.yml")
	require.NoError(t, err)
	require.Equal(t, 2, docSet.Len())

	result, err := f.expander.ExpandDocuments(docSet.Items[0].Value, docSet.Items[1].Value)
	require.NoError(t, err)
	return result
}

func toJSON(t *testing.T, val interface{}) string {
	t.Helper()
	bs, err := json.Marshal(val)
	require.NoError(t, err)
	return string(bs)
}

func TestExpandCheckWithoutTagsIsUnchanged(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
Key: {requires: "|Key|", category: [Keys]}
---
- name: Plain
  requires: "|Sword|"
  category: Misc
  hint: look around
`)

	require.Equal(t, `[{"name":"Plain","requires":"|Sword|","category":"Misc","hint":"look around"}]`, toJSON(t, result.Checks))
	assert.Empty(t, f.usage.Names())
	assert.Empty(t, result.Gaps)
}

func TestExpandRequiresAreJoinedInOrder(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
A: {requires: "X"}
B: {requires: "Y"}
---
- name: Tagged
  t: [A, B]
- name: WithOwn
  requires: "Z"
  t: [A, B]
`)

	require.Equal(t, `[`+
		`{"name":"Tagged","category":[],"requires":"X and Y"},`+
		`{"name":"WithOwn","requires":"Z and X and Y","category":[]}]`, toJSON(t, result.Checks))
}

func TestExpandOmitsEmptyRequires(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
A: {category: [Cat]}
---
- name: NoReqs
  requires: ""
  t: A
- name: FalsyReqs
  requires: [false, ~, "", 0]
  t: [A]
`)

	require.Equal(t, `[`+
		`{"name":"NoReqs","category":["Cat"]},`+
		`{"name":"FalsyReqs","category":["Cat"]}]`, toJSON(t, result.Checks))
}

func TestExpandCategoryOrder(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
A: {category: [FromA1, FromA2]}
B: {category: FromB}
---
- track:
    name: Forest
    category: [Track1, Track2]
  checks:
  - name: Chest
    category: [Own]
    t: [A, B]
  - name: Bush
    category: Own
`)

	require.Equal(t, `[`+
		`{"name":"Forest - Chest","category":["Track1","Track2","Own","FromA1","FromA2","FromB"]},`+
		`{"name":"Forest - Bush","category":["Track1","Track2","Own"]}]`, toJSON(t, result.Checks))
}

func TestExpandCountsUsageAndAliases(t *testing.T) {
	f := newExpandFixture()
	f.expand(t, `
Key: {requires: "|Key|", t: [Unlock, Any]}
Boss: {}
---
- name: One
  t: [Key]
- name: Two
  t: [Key, Boss]
`)

	assert.Equal(t, map[string]int{"Key": 2, "Boss": 1, "Unlock": 2, "Any": 2}, f.usage.Snapshot())
}

func TestExpandAliasesDoNotContribute(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
Key: {t: [Lock]}
Lock: {requires: "|Lock|", category: [Locks]}
---
- name: Door
  t: [Key]
`)

	require.Equal(t, `[{"name":"Door","category":[]}]`, toJSON(t, result.Checks))
	count, _ := f.usage.Get("Lock")
	assert.Equal(t, 1, count)
}

func TestExpandMissingTagIsReferenceGap(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
Known: {requires: "K"}
---
- name: Chest
  t: [Known, Unknown]
`)

	require.Equal(t, `[{"name":"Chest","category":[],"requires":"K"}]`, toJSON(t, result.Checks))
	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "locations.yml: unresolved tag 'Unknown' in check 'Chest'", result.Gaps[0].String())

	count, _ := f.usage.Get("Unknown")
	assert.Equal(t, 1, count)
}

func TestExpandInlineRegion(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
~
---
- track: {name: Cave}
  region:
    name: Dark Cave
    connects_to: [Forest]
    requires: "|Lamp|"
  checks:
  - name: Pool
  - name: Ledge
    region: Cliff
`)

	require.Equal(t, `[{"name":"Cave - Pool","region":"Dark Cave"},{"name":"Cave - Ledge","region":"Cliff"}]`, toJSON(t, result.Checks))

	require.Equal(t, `{"Dark Cave":{"connects_to":["Forest"],"requires":"|Lamp|"}}`, toJSON(t, f.regions.AsMap()))
}

func TestExpandTrackRegionReference(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
{}
---
- track: {region: Explicit}
  region: {name: Inline}
  checks:
  - name: A
- track: {}
  region: Named
  checks:
  - name: B
`)

	require.Equal(t, `[{"name":"A","region":"Explicit"},{"name":"B","region":"Named"}]`, toJSON(t, result.Checks))
	assert.Equal(t, 1, f.regions.Len())
}

func TestExpandDuplicateRegion(t *testing.T) {
	f := newExpandFixture()
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(`
{}
---
- track: {}
  region: {name: Forest}
- track: {}
  region: {name: Forest}
`), "locations.yml")
	require.NoError(t, err)

	_, err = f.expander.ExpandDocuments(docSet.Items[0].Value, docSet.Items[1].Value)
	require.EqualError(t, err, "Structural error (locations.yml:?): Region 'Forest' is already defined (locations.yml:?)")
}

func TestExpandStructuralErrors(t *testing.T) {
	cases := []struct {
		tags, locations, err string
	}{
		{"[]", "[]", "Structural error: Expected tag dictionary to be a mapping, but was a list"},
		{"{A: x}", "[]", "Structural error: Expected tag 'A' to be a mapping, but was a string"},
		{"{}", "{}", "Structural error: Expected location tree to be a list, but was a mapping"},
		{"{}", "[1]", "Structural error: Expected location [0] to be a mapping, but was a number"},
		{"{}", "[{track: {}, checks: x}]", "Structural error: Expected track [0] checks to be a list, but was a string"},
		{"{}", "[{track: {}, checks: [x]}]", "Structural error: Expected check [0].checks[0] to be a mapping, but was a string"},
		{"{}", "[{track: {}, region: {connects_to: []}}]", "Structural error (locations.yml:?): Expected track [0] region to have a name"},
		{"{}", "[{name: C, t: [[a]]}]", "Structural error (locations.yml:?): In check 'C': Expected tag names to be scalars, but found a list"},
	}

	for _, tc := range cases {
		f := newExpandFixture()
		docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(tc.tags+"\n---\n"+tc.locations+"\n"), "locations.yml")
		require.NoError(t, err)

		_, err = f.expander.ExpandDocuments(docSet.Items[0].Value, docSet.Items[1].Value)
		require.EqualError(t, err, tc.err)
	}
}

func TestExpandFrozenUsageFails(t *testing.T) {
	f := newExpandFixture()
	f.usage.Freeze()

	entries := []locations.Entry{&locations.Check{Fields: orderedmap.NewMapWithItems([]orderedmap.MapItem{
		{Key: "name", Value: "C"},
		{Key: "t", Value: []interface{}{"A"}},
	})}}
	f.expander.Tags = locations.NewTagDictionary()

	_, err := f.expander.Expand(entries)
	require.Error(t, err)
}

func TestExpandDoesNotMutateInput(t *testing.T) {
	f := newExpandFixture()
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(`
A: {category: [X]}
---
- track: {name: T, category: [C]}
  region: {name: R}
  checks:
  - name: N
    t: [A]
`), "locations.yml")
	require.NoError(t, err)
	before := toJSON(t, docSet.Values())

	_, err = f.expander.ExpandDocuments(docSet.Items[0].Value, docSet.Items[1].Value)
	require.NoError(t, err)
	require.Equal(t, before, toJSON(t, docSet.Values()))
}

func TestExpandedChecksRoundTripThroughJSON(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
A: {requires: "X", category: [One, Two]}
---
- track: {name: T, category: [C]}
  checks:
  - {name: N, t: [A], hint: h}
`)

	bs, err := json.Marshal(result.Checks)
	require.NoError(t, err)

	var parsed interface{}
	require.NoError(t, json.Unmarshal(bs, &parsed))
	require.Equal(t, []interface{}{
		map[string]interface{}{
			"name":     "T - N",
			"category": []interface{}{"C", "One", "Two"},
			"hint":     "h",
			"requires": "X",
		},
	}, parsed)

	reencoded, err := json.Marshal(orderedmap.Conversion{Object: parsed}.FromUnorderedMaps())
	require.NoError(t, err)
	require.JSONEq(t, string(bs), string(reencoded))
}

func TestExpandNullTagDefinition(t *testing.T) {
	f := newExpandFixture()
	result := f.expand(t, `
Empty: ~
---
- name: Check
  t: [Empty]
`)

	require.Equal(t, `[{"name":"Check","category":[]}]`, toJSON(t, result.Checks))
	count, found := f.usage.Get("Empty")
	require.True(t, found)
	require.Equal(t, 1, count)
	require.Empty(t, result.Gaps)
}
