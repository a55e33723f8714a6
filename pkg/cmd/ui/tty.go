// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const loggerPrefix = "apworld"

// TTY prints regular output to stdout and leveled messages to stderr.
type TTY struct {
	stdout io.Writer
	logger *log.Logger
}

var _ UI = TTY{}

func NewTTY(debug bool) TTY {
	return NewCustomWriterTTY(debug, os.Stdout, os.Stderr)
}

// Used for testing whether TTY writes correct output to stdout/stderr
func NewCustomWriterTTY(debug bool, stdout, stderr io.Writer) TTY {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	logger := log.NewWithOptions(stderr, log.Options{
		Prefix: loggerPrefix,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	return TTY{stdout, logger}
}

func (t TTY) Printf(str string, args ...interface{}) {
	fmt.Fprintf(t.stdout, str, args...)
}

func (t TTY) Warnf(str string, args ...interface{}) {
	t.logger.Warn(t.message(str, args...))
}

func (t TTY) Debugf(str string, args ...interface{}) {
	t.logger.Debug(t.message(str, args...))
}

func (t TTY) Debug(msg string, keyvals ...interface{}) {
	t.logger.Debug(msg, keyvals...)
}

func (TTY) message(str string, args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintf(str, args...), "\n")
}
