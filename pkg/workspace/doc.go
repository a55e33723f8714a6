// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package workspace compiles every YAML source file of a project into JSON
output files.

Source files are read and parsed concurrently, then compiled in three
phases so that option descriptions always see complete tag usage:

 1. location files (count tag usage, register regions)
 2. direct and flatten files
 3. option files, after tag usage is frozen

Within a phase files compile in the order they were given (sorted by path
when listed with files.NewFiles).
*/
package workspace
