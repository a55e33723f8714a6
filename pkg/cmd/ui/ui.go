// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

// UI separates command output from diagnostics. Printf is command output;
// everything else is leveled logging.
type UI interface {
	Printf(string, ...interface{})
	Debugf(string, ...interface{})
	Warnf(str string, args ...interface{})
	// Debug logs a message with key-value pairs
	Debug(msg string, keyvals ...interface{})
}
