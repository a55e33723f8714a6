// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of
apworld, a compiler that turns a directory of YAML sources into the JSON data
files of an Archipelago "Manual" world and packs them into a .apworld archive.

Packages are layered: each one depends only on the layers below it.

	(# of dependents) => <package name> => (# of dependencies)

# Entry Point

	./cmd/apworld              // the command-line tool

# Commands

The "build" command produces the archive; "compile" only writes (or prints)
the JSON data files.

	(1) => pkg/cmd => (7)
	(5) => pkg/cmd/ui => (0)

# The Workspace

A build reads every YAML source, then compiles them in phases: "locations"
files first (so tag usage and regions are fully accumulated), then "direct"
and "flatten" files, and finally "options" files, whose descriptions are
templated with the final tag counts.

	(2) => pkg/workspace => (5)
	(4) => pkg/files => (0)

# Compilation

Each source declares its output mode with a "#%output" directive. Compilation
dispatches on that mode.

	(3) => pkg/compile => (7)
	(1) => pkg/flatten => (3)
	(1) => pkg/locations => (5)
	(1) => pkg/options => (5)
	(3) => pkg/accumulator => (3)

# Packaging

	(1) => pkg/manifest => (5)
	(1) => pkg/archive => (2)
	(1) => pkg/config => (0)

# YAML Structures

Sources are parsed with gopkg.in/yaml.v3 into plain values: ordered maps,
slices and scalars. Directives are read from comment lines beforehand.

	(7) => pkg/yamlmeta => (3)
	(7) => pkg/orderedmap => (0)

# Utilities

	(8) => pkg/errs => (1)
	(5) => pkg/filepos => (0)
	(1) => pkg/version => (0)
*/
package pkg
