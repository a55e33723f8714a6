// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/apmanual/apworld/pkg/cmd/ui"
	"github.com/apmanual/apworld/pkg/compile"
	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/orderedmap"
	"github.com/apmanual/apworld/pkg/yamlmeta"
	"github.com/hashicorp/go-version"
)

const (
	FileName = "archipelago.json"

	// Version of the archipelago.json format written by Generate
	Version           = 6
	CompatibleVersion = 5

	archipelagoEngine = "archipelago"
)

var (
	// Single lower-bound clause such as "0.5.1", ">=0.5.1", "^0.5.1" or "~0.5.1"
	lowerBoundRangeRegexp = regexp.MustCompile(`^\s*(>=|\^|~|=)?\s*(v?[0-9][^\s|,<>=]*)\s*$`)
)

// Package is the subset of package.json used for the manifest.
type Package struct {
	Version string            `json:"version"`
	Author  interface{}       `json:"author"`
	Engines map[string]string `json:"engines"`
}

type Inputs struct {
	Prefix string
	// Package is nil when the project has no package.json
	Package *Package
	// Overlay holds the project's own archipelago.json; keys override generated ones
	Overlay []byte
}

type Generator struct {
	UI ui.UI
}

func NewGenerator(ui ui.UI) Generator {
	return Generator{UI: ui}
}

// LoadInputs reads project metadata. Missing files are reported as
// warnings and replaced with defaults.
func (g Generator) LoadInputs(gamePath, packagePath, overlayPath string) (Inputs, error) {
	inputs := Inputs{Prefix: DefaultPrefix}

	gameData, err := readOptionalFile(gamePath)
	if err != nil {
		return Inputs{}, err
	}
	if gameData == nil {
		g.UI.Warnf("Unable to find '%s', using prefix '%s'\n", gamePath, DefaultPrefix)
	} else {
		inputs.Prefix, err = PrefixFromGame(gameData, gamePath)
		if err != nil {
			return Inputs{}, err
		}
	}

	pkgData, err := readOptionalFile(packagePath)
	if err != nil {
		return Inputs{}, err
	}
	if pkgData == nil {
		g.UI.Warnf("Unable to find '%s'\n", packagePath)
	} else {
		var pkg Package
		err := json.Unmarshal(pkgData, &pkg)
		if err != nil {
			return Inputs{}, fmt.Errorf("Parsing '%s': %w", packagePath, err)
		}
		inputs.Package = &pkg
	}

	inputs.Overlay, err = readOptionalFile(overlayPath)
	if err != nil {
		return Inputs{}, err
	}

	return inputs, nil
}

// Generate builds archipelago.json contents.
func (g Generator) Generate(inputs Inputs) (*orderedmap.Map, error) {
	pkg := inputs.Package
	if pkg == nil {
		pkg = &Package{}
	}

	result := orderedmap.NewMap()
	result.Set("game", inputs.Prefix)

	if pkg.Version != "" {
		result.Set("world_version", pkg.Version)
		if _, err := version.NewSemver(pkg.Version); err != nil {
			g.UI.Warnf("Expected package version '%s' to be a semantic version: %s\n", pkg.Version, err)
		}
	}

	authors := []interface{}{}
	if pkg.Author != nil {
		authors = append(authors, orderedmap.Conversion{Object: pkg.Author}.FromUnorderedMaps())
	}
	result.Set("authors", authors)

	result.Set("version", Version)
	result.Set("compatible_version", CompatibleVersion)

	if apRange, found := pkg.Engines[archipelagoEngine]; found {
		minVersion, ok := MinimumVersion(apRange)
		if ok {
			result.Set("minimum_ap_version", minVersion)
		} else {
			g.UI.Warnf("Unable to determine minimum Archipelago version from '%s'\n", apRange)
		}
	}

	if len(inputs.Overlay) > 0 {
		overlay, err := g.parseOverlay(inputs.Overlay)
		if err != nil {
			return nil, err
		}
		overlay.Iterate(func(k string, v interface{}) { result.Set(k, v) })
	}

	return result, nil
}

// GenerateJSON is Generate encoded like compiled data files.
func (g Generator) GenerateJSON(inputs Inputs) ([]byte, error) {
	result, err := g.Generate(inputs)
	if err != nil {
		return nil, err
	}
	return compile.Result{Value: result}.AsJSON()
}

func (g Generator) parseOverlay(data []byte) (*orderedmap.Map, error) {
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{IgnoreDirectives: true}).ParseBytes(data, FileName)
	if err != nil {
		return nil, err
	}
	if docSet.Len() != 1 {
		return nil, errs.NewDocumentCountError(docSet.Position, "manifest", 1, docSet.Len())
	}

	overlay, ok := docSet.Items[0].Value.(*orderedmap.Map)
	if !ok {
		return nil, errs.NewStructuralError(docSet.Position,
			"Expected manifest to be a mapping, but was %s", yamlmeta.TypeName(docSet.Items[0].Value))
	}
	return overlay, nil
}

// MinimumVersion resolves the lowest version satisfying a single
// lower-bound range. Compound ranges are not resolved.
func MinimumVersion(versionRange string) (string, bool) {
	submatches := lowerBoundRangeRegexp.FindStringSubmatch(versionRange)
	if submatches == nil {
		return "", false
	}

	ver, err := version.NewSemver(submatches[2])
	if err != nil {
		return "", false
	}
	return ver.String(), true
}

func readOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("Reading '%s': %w", path, err)
	}
	return data, nil
}
