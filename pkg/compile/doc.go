// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package compile picks the transform for a parsed document set based on its
output mode and turns it into a single JSON-serializable value.

Document counts are checked before any transform runs:

	direct     1
	flatten    1
	options    1
	locations  2 (tag dictionary, then location tree)

Tag usage and regions are injected through State so that the caller owns
them for the duration of a build.
*/
package compile
