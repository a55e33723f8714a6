// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/apmanual/apworld/pkg/filepos"
)

const directivePrefix = "#%"

type DirectiveName string

const (
	DirectiveSchema DirectiveName = "schema"
	DirectiveOutput DirectiveName = "output"
)

type Directive struct {
	Name     DirectiveName
	Args     []string
	Position *filepos.Position
}

type DirectiveHandler func(*Directive) error

// DirectiveRouter finds directive comments in raw text and hands each
// recognized one to its handler. Directives without a handler are returned
// but otherwise ignored.
type DirectiveRouter struct {
	handlers map[DirectiveName]DirectiveHandler
}

func NewDirectiveRouter() *DirectiveRouter {
	return &DirectiveRouter{handlers: map[DirectiveName]DirectiveHandler{}}
}

func (r *DirectiveRouter) Handle(name DirectiveName, handler DirectiveHandler) {
	r.handlers[name] = handler
}

func (r *DirectiveRouter) Route(data []byte, associatedName string) ([]*Directive, error) {
	var directives []*Directive

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		directive, ok := r.parseLine(scanner.Text())
		if !ok {
			continue
		}
		directive.Position = filepos.NewPositionInFile(lineNum, associatedName)
		directives = append(directives, directive)

		if handler, found := r.handlers[directive.Name]; found {
			err := handler(directive)
			if err != nil {
				return nil, err
			}
		}
	}

	return directives, scanner.Err()
}

func (r *DirectiveRouter) parseLine(line string) (*Directive, bool) {
	if !strings.HasPrefix(line, directivePrefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(line, directivePrefix))
	if len(fields) == 0 {
		return nil, false
	}
	return &Directive{
		Name: DirectiveName(strings.ToLower(fields[0])),
		Args: fields[1:],
	}, true
}
