// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/filepos"
	"gopkg.in/yaml.v3"
)

var (
	// eg "yaml: line 2: found character that cannot start any token"
	lineErrRegexp = regexp.MustCompile(`(?s)^yaml: line (?P<num>\d+): (?P<msg>.+)$`)
)

type ParserOpts struct {
	// IgnoreDirectives parses documents without routing directives
	// (used for project metadata files such as game.yml)
	IgnoreDirectives bool
}

type Parser struct {
	opts           ParserOpts
	associatedName string
}

func NewParser(opts ParserOpts) *Parser {
	return &Parser{opts, ""}
}

func (p *Parser) ParseBytes(data []byte, associatedName string) (*DocumentSet, error) {
	p.associatedName = associatedName

	docSet := &DocumentSet{
		Mode:     ModeDirect,
		Position: filepos.NewUnknownPositionInFile(associatedName),
	}

	if !p.opts.IgnoreDirectives {
		directives, err := p.newRouter(docSet).Route(data, associatedName)
		if err != nil {
			return nil, err
		}
		docSet.Directives = directives
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	for {
		var node yaml.Node

		err := dec.Decode(&node)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, p.syntaxErr(err)
		}

		val, err := newNodeConverter(p).convert(&node)
		if err != nil {
			return nil, err
		}

		docSet.Items = append(docSet.Items, &Document{
			Value:    val,
			Position: p.newPosition(node.Line),
		})
	}

	return docSet, nil
}

func (p *Parser) newRouter(docSet *DocumentSet) *DirectiveRouter {
	router := NewDirectiveRouter()

	router.Handle(DirectiveSchema, func(d *Directive) error {
		if len(d.Args) != 1 {
			return errs.NewStructuralError(d.Position,
				"Expected schema directive to have exactly one argument, but found %d", len(d.Args))
		}
		docSet.Schema = d.Args[0]
		return nil
	})

	router.Handle(DirectiveOutput, func(d *Directive) error {
		if len(d.Args) != 1 {
			return errs.NewStructuralError(d.Position,
				"Expected output directive to have exactly one argument, but found %d", len(d.Args))
		}
		mode, ok := ParseOutputMode(d.Args[0])
		if !ok {
			return errs.NewStructuralError(d.Position, "Unknown output mode '%s'", d.Args[0]).
				WithHint(fmt.Sprintf("expected one of: %s", p.knownModesStr()))
		}
		docSet.Mode = mode
		return nil
	})

	return router
}

func (p *Parser) knownModesStr() string {
	var names []string
	for _, mode := range knownModes {
		names = append(names, string(mode))
	}
	return strings.Join(names, ", ")
}

func (p *Parser) syntaxErr(err error) error {
	submatches := lineErrRegexp.FindStringSubmatch(err.Error())
	if len(submatches) != 3 {
		return errs.NewSyntaxError(p.newPosition(0), "%s", strings.TrimPrefix(err.Error(), "yaml: "))
	}

	lineNum, convErr := strconv.Atoi(submatches[1])
	if convErr != nil {
		lineNum = 0
	}

	return errs.NewSyntaxError(p.newPosition(lineNum), "%s", submatches[2])
}

func (p *Parser) newPosition(line int) *filepos.Position {
	return filepos.NewUnknownPositionInFile(p.associatedName).AtLine(line)
}
