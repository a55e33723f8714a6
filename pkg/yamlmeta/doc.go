// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package yamlmeta parses YAML streams into a DocumentSet: the ordered documents
of the stream plus the metadata carried by directive comments.

A directive is a comment line starting in the first column with "#%":

	#%schema https://example.com/items.schema.json
	#%output flatten

Directives configure how a file is compiled; they never become part of any
document value.
*/
package yamlmeta
