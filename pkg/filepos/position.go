// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package filepos

import (
	"fmt"
)

// Position is an immutable file name and 1-based line number.
// A zero line means the line is unknown.
type Position struct {
	file string
	line int
}

func NewPosition(line int) *Position {
	if line <= 0 {
		panic("Lines are 1 based")
	}
	return &Position{line: line}
}

// NewPositionInFile returns the Position of line "line" within the file "file"
func NewPositionInFile(line int, file string) *Position {
	p := NewPosition(line)
	p.file = file
	return p
}

// NewUnknownPosition is equivalent of zero value *Position
func NewUnknownPosition() *Position {
	return &Position{}
}

// NewUnknownPositionInFile produces a Position of a known file at an unknown line.
func NewUnknownPositionInFile(file string) *Position {
	return &Position{file: file}
}

// AtLine returns a Position in the same file at line "line". Non-positive
// lines produce an unknown position in that file.
func (p *Position) AtLine(line int) *Position {
	if line <= 0 {
		return NewUnknownPositionInFile(p.GetFile())
	}
	return NewPositionInFile(line, p.GetFile())
}

func (p *Position) IsKnown() bool { return p != nil && p.line > 0 }

func (p *Position) LineNum() int {
	if !p.IsKnown() {
		panic("Position is unknown")
	}
	return p.line
}

func (p *Position) GetFile() string {
	if p == nil {
		return ""
	}
	return p.file
}

func (p *Position) AsString() string {
	return "line " + p.AsCompactString()
}

// AsCompactString formats as "file:line", using "?" for an unknown line.
func (p *Position) AsCompactString() string {
	line := "?"
	if p.IsKnown() {
		line = fmt.Sprintf("%d", p.line)
	}
	if file := p.GetFile(); file != "" {
		return file + ":" + line
	}
	return line
}
