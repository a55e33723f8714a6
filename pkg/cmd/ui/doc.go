// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package ui provides a thin abstraction over command output and diagnostics.

Command output (file listings, compiled JSON, the archive summary) goes to
stdout. Warnings such as unresolved tag references, and debug messages enabled
with --debug, are logged to stderr through github.com/charmbracelet/log.
*/
package ui
