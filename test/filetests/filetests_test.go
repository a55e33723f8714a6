// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package filetests

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimTrailingMultilineWhitespace(t *testing.T) {
	for _, testcase := range []struct {
		give, want string
	}{
		{
			give: `we want yaml`,
			want: `we want yaml`,
		},
		{
			give: `we want yaml `,
			want: `we want yaml`,
		},
		{
			give: `we want yaml	`,
			want: `we want yaml`,
		},
		{
			give: `we want yaml
`,
			want: `we want yaml`,
		},
		{
			give: `
we 
want	
yaml  `,
			want: `
we
want
yaml`,
		},
		{
			give: `
we

  want	
	yaml

`,
			want: `
we

  want
	yaml`,
		},
	} {
		assert.Equal(t, testcase.want, TrimTrailingMultilineWhitespace(testcase.give))
	}
}

func TestDefaultEvalKeepsFileHeaderOrder(t *testing.T) {
	src := `==> b.yml <==
name: b
==> a.yml <==
- 1
`
	result, testErr := FileTests{}.DefaultEval(src)
	if testErr != nil {
		t.Fatalf("unexpected error: %s", testErr.TestErr())
	}

	bs, err := result.AsBytes()
	assert.NoError(t, err)
	assert.Equal(t, `==> b.json <==
{
    "name": "b"
}
==> a.json <==
[
    1
]`, TrimTrailingMultilineWhitespace(string(bs)))
}

func TestDefaultEvalReportsUserError(t *testing.T) {
	_, testErr := FileTests{}.DefaultEval("#%output flatten\n- common: {}\n  data: nope\n")
	if testErr == nil {
		t.Fatalf("expected an error")
	}
	assert.Equal(t, "Structural error (stdin.yml:?): Expected group [0] 'data' to be a list, but was a string",
		testErr.UserErr().Error())
}
