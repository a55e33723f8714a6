// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

Compiled documents are emitted as JSON in the same key order they were written
in YAML, which keeps archives reproducible and diffs between builds readable.
*/
package orderedmap
