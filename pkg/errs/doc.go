// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package errs defines the failure kinds of a compile.

A SyntaxError or StructuralError is fatal for the file being compiled (and so
for the whole build). A ReferenceGap is not an error at all: unknown tags and
template placeholders are left in place and reported back to the caller.
*/
package errs
