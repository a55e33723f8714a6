// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files provides primitives for enumerating and loading data from
file or file-like Source's and for writing output to filesystem files and
directories.

This allows the rest of apworld to process a project's source files without
becoming entangled in the details of how to read or write data.

Files are processed differently depending on their Type. For example,
File instances that are TypeYAML are compiled into JSON, while other files
found in a distribution directory are copied as-is.
*/
package files
