// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package options fills ${name} placeholders in option descriptions with tag
usage counts, eg

	user:
	  goal_count:
	    type: Range
	    description: "Collect any of the ${Goal} goal items"

Placeholders naming a tag that was never applied are left as written.
*/
package options
