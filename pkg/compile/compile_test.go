// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package compile_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/apmanual/apworld/pkg/compile"
	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/yamlmeta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, state compile.State, data, name string) (compile.Result, error) {
	t.Helper()
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(data), name)
	require.NoError(t, err)
	return compile.Dispatch(docSet, state)
}

func toJSON(t *testing.T, val interface{}) string {
	t.Helper()
	bs, err := json.Marshal(val)
	require.NoError(t, err)
	return string(bs)
}

func TestDispatchDirect(t *testing.T) {
	result, err := dispatch(t, compile.NewState(), `{name: Sword, count: 2}`, "items.yml")
	require.NoError(t, err)
	require.Equal(t, `{"name":"Sword","count":2}`, toJSON(t, result.Value))
}

func TestDispatchDirectAttachesSchema(t *testing.T) {
	result, err := dispatch(t, compile.NewState(), `#%schema https://example.com/game.json
name: Sword
`, "game.yml")
	require.NoError(t, err)
	require.Equal(t, `{"$schema":"https://example.com/game.json","name":"Sword"}`, toJSON(t, result.Value))
}

func TestDispatchDirectWrapsListOnlyWithSchema(t *testing.T) {
	result, err := dispatch(t, compile.NewState(), `#%schema items.json
- a
- b
`, "items.yml")
	require.NoError(t, err)
	require.Equal(t, `{"$schema":"items.json","data":["a","b"]}`, toJSON(t, result.Value))

	result, err = dispatch(t, compile.NewState(), `[a, b]`, "items.yml")
	require.NoError(t, err)
	require.Equal(t, `["a","b"]`, toJSON(t, result.Value))
}

func TestDispatchDocumentCounts(t *testing.T) {
	cases := []struct {
		desc string
		data string
		err  string
	}{
		{
			desc: "locations with one document",
			data: "#%output locations\n{}\n",
			err:  "Structural error (test.yml:?): Wrong document count for mode 'locations': expected 2, but found 1",
		},
		{
			desc: "flatten with two documents",
			data: "#%output flatten\n[]\n---\n[]\n",
			err:  "Structural error (test.yml:?): Wrong document count for mode 'flatten': expected 1, but found 2",
		},
		{
			desc: "direct with no documents",
			data: "",
			err:  "Structural error (test.yml:?): Wrong document count for mode 'direct': expected 1, but found 0",
		},
		{
			desc: "options with no documents",
			data: "#%output options\n",
			err:  "Structural error (test.yml:?): Wrong document count for mode 'options': expected 1, but found 0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			state := compile.NewState()
			state.Usage.Freeze()

			_, err := dispatch(t, state, tc.data, "test.yml")
			require.EqualError(t, err, tc.err)

			var structErr *errs.StructuralError
			require.True(t, errors.As(err, &structErr))
			assert.Equal(t, errs.KindStructural, structErr.Kind())
		})
	}
}

func TestDispatchFlatten(t *testing.T) {
	result, err := dispatch(t, compile.NewState(), `#%output flatten
- common: {progression: true}
  data:
  - name: A
  - name: B
    progression: false
`, "items.yml")
	require.NoError(t, err)
	require.Equal(t, `[{"progression":true,"name":"A"},{"progression":false,"name":"B"}]`, toJSON(t, result.Value))
}

func TestDispatchFillsErrorPosition(t *testing.T) {
	_, err := dispatch(t, compile.NewState(), "#%output flatten\n{}\n", "items.yml")
	require.EqualError(t, err, "Structural error (items.yml:?): Expected document to be a list of items, but was a mapping")
}

func TestDispatchLocationsThenOptions(t *testing.T) {
	state := compile.NewState()

	result, err := dispatch(t, state, `#%output locations
Key: {requires: "|Key|", category: [Keys]}
---
- track:
    name: Dungeon
  region: {name: Dungeon, connects_to: [Menu]}
  checks:
  - name: Door
    t: [Key]
- name: Chest
  t: [Key, Missing]
`, "locations.yml")
	require.NoError(t, err)
	require.Equal(t, `[`+
		`{"name":"Dungeon - Door","region":"Dungeon","category":["Keys"],"requires":"|Key|"},`+
		`{"name":"Chest","category":["Keys"],"requires":"|Key|"}]`, toJSON(t, result.Value))
	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "Missing", result.Gaps[0].Name)
	assert.Equal(t, `{"Dungeon":{"connects_to":["Menu"]}}`, toJSON(t, state.Regions.AsMap()))

	_, err = dispatch(t, state, "#%output options\nuser: {}\n", "options.yml")
	require.Error(t, err)

	state.Usage.Freeze()

	result, err = dispatch(t, state, `#%output options
#%schema options.json
user:
  keys: {description: "${Key} keys"}
`, "options.yml")
	require.NoError(t, err)
	require.Equal(t, `{"$schema":"options.json","user":{"keys":{"description":"2 keys"}}}`, toJSON(t, result.Value))
	assert.Empty(t, result.Gaps)
}

func TestDispatchUnknownDirectiveIsIgnored(t *testing.T) {
	result, err := dispatch(t, compile.NewState(), "#%future thing\n{a: 1}\n", "test.yml")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, toJSON(t, result.Value))
}

func TestResultAsJSON(t *testing.T) {
	result, err := dispatch(t, compile.NewState(), `{requires: "|A| and (|B| or |C|)", data: [1, {x: "<&>"}]}`, "test.yml")
	require.NoError(t, err)

	bs, err := result.AsJSON()
	require.NoError(t, err)
	require.Equal(t, `{
    "requires": "|A| and (|B| or |C|)",
    "data": [
        1,
        {
            "x": "<&>"
        }
    ]
}`, string(bs))
}
