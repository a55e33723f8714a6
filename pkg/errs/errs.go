// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"fmt"
	"strings"

	"github.com/apmanual/apworld/pkg/filepos"
)

type Kind string

const (
	KindSyntax     Kind = "syntax"
	KindStructural Kind = "structural"
)

// SyntaxError is raised when source text cannot be read as YAML.
type SyntaxError struct {
	Position *filepos.Position
	Message  string
}

var _ error = &SyntaxError{}

func NewSyntaxError(pos *filepos.Position, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Kind() Kind { return KindSyntax }

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax error (%s): %s", e.Position.AsCompactString(), e.Message)
}

// StructuralError is raised when well-formed YAML does not have the shape
// required by the selected output mode.
type StructuralError struct {
	Position *filepos.Position
	Message  string
	Hint     string
}

var _ error = &StructuralError{}

func NewStructuralError(pos *filepos.Position, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

func NewDocumentCountError(pos *filepos.Position, mode string, expected, actual int) *StructuralError {
	return &StructuralError{
		Position: pos,
		Message:  fmt.Sprintf("Wrong document count for mode '%s': expected %d, but found %d", mode, expected, actual),
	}
}

func (e *StructuralError) Kind() Kind { return KindStructural }

func (e *StructuralError) WithHint(hint string) *StructuralError {
	e.Hint = hint
	return e
}

func (e *StructuralError) Error() string {
	msg := "Structural error"
	if e.Position != nil {
		msg += fmt.Sprintf(" (%s)", e.Position.AsCompactString())
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += fmt.Sprintf(" (hint: %s)", e.Hint)
	}
	return msg
}

// ReferenceGap records a reference that did not resolve. Gaps are never fatal;
// they are collected and reported as warnings.
type ReferenceGap struct {
	Position *filepos.Position
	Kind     string // eg "tag" or "placeholder"
	Name     string
	Context  string
}

func (g ReferenceGap) String() string {
	var pieces []string
	if g.Position.GetFile() != "" {
		pieces = append(pieces, g.Position.GetFile()+":")
	}
	pieces = append(pieces, fmt.Sprintf("unresolved %s '%s'", g.Kind, g.Name))
	if g.Context != "" {
		pieces = append(pieces, fmt.Sprintf("in %s", g.Context))
	}
	return strings.Join(pieces, " ")
}
