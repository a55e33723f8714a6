// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a file)
and line number within that source.

Positions are carried by parsed documents and by compile errors so that a
failure can point the user at the offending line of a source file. The
zero-value of Position (see NewUnknownPosition()) represents a value that did
not come from a file, or whose line could not be determined.
*/
package filepos
