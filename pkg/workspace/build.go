// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"fmt"
	"runtime"

	"github.com/apmanual/apworld/pkg/cmd/ui"
	"github.com/apmanual/apworld/pkg/compile"
	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/files"
	"github.com/apmanual/apworld/pkg/yamlmeta"
	"golang.org/x/sync/errgroup"
)

const (
	outputExt       = ".json"
	regionsFileName = "regions" + outputExt
)

var buildPhases = [][]yamlmeta.OutputMode{
	{yamlmeta.ModeLocations},
	{yamlmeta.ModeDirect, yamlmeta.ModeFlatten},
	{yamlmeta.ModeOptions},
}

type Builder struct {
	UI ui.UI
}

type Output struct {
	// Files follow the order of the sources given to Build, then regions.json if any region was defined
	Files []files.OutputFile
	Gaps  []errs.ReferenceGap
	Usage map[string]int
}

type sourceDocSet struct {
	file   *files.File
	docSet *yamlmeta.DocumentSet
}

func NewBuilder(ui ui.UI) Builder {
	return Builder{UI: ui}
}

// Build compiles YAML files among srcFiles; other files are skipped.
// No output is returned unless every file compiled.
func (b Builder) Build(ctx context.Context, srcFiles []*files.File) (Output, error) {
	sources, err := b.parse(ctx, srcFiles)
	if err != nil {
		return Output{}, err
	}

	state := compile.NewState()
	results := make([]*compile.Result, len(sources))

	for i, phaseModes := range buildPhases {
		if i == len(buildPhases)-1 {
			state.Usage.Freeze()
		}

		err := b.compilePhase(ctx, sources, phaseModes, state, results)
		if err != nil {
			return Output{}, err
		}
	}

	output := Output{Usage: state.Usage.Snapshot()}

	for _, name := range state.Usage.Names() {
		b.UI.Debug("tag usage", "tag", name, "count", output.Usage[name])
	}

	for i, source := range sources {
		result := results[i]

		bs, err := result.AsJSON()
		if err != nil {
			return Output{}, fmt.Errorf("Compiling %s: %w", source.file.Description(), err)
		}
		output.Files = append(output.Files, files.NewOutputFile(source.file.Stem()+outputExt, bs))
		output.Gaps = append(output.Gaps, result.Gaps...)
	}

	if state.Regions.Len() > 0 {
		bs, err := compile.Result{Value: state.Regions.AsMap()}.AsJSON()
		if err != nil {
			return Output{}, fmt.Errorf("Compiling regions: %w", err)
		}
		output.Files = append(output.Files, files.NewOutputFile(regionsFileName, bs))
	}

	err = files.CheckOutputFiles(output.Files)
	if err != nil {
		return Output{}, err
	}

	for _, gap := range output.Gaps {
		b.UI.Warnf("%s\n", gap)
	}

	return output, nil
}

func (b Builder) parse(ctx context.Context, srcFiles []*files.File) ([]sourceDocSet, error) {
	var yamlFiles []*files.File

	for _, file := range srcFiles {
		if file.Type() != files.TypeYAML {
			b.UI.Debugf("skipping non-YAML file %s\n", file.RelativePath())
			continue
		}
		yamlFiles = append(yamlFiles, file)
	}

	sources := make([]sourceDocSet, len(yamlFiles))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range yamlFiles {
		i, file := i, file
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bs, err := file.Bytes()
			if err != nil {
				return fmt.Errorf("Reading %s: %w", file.Description(), err)
			}

			docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes(bs, file.RelativePath())
			if err != nil {
				return err
			}

			sources[i] = sourceDocSet{file, docSet}
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	return sources, nil
}

func (b Builder) compilePhase(ctx context.Context, sources []sourceDocSet,
	modes []yamlmeta.OutputMode, state compile.State, results []*compile.Result) error {

	for i, source := range sources {
		if !b.hasMode(modes, source.docSet.Mode) {
			continue
		}

		err := ctx.Err()
		if err != nil {
			return err
		}

		b.UI.Debugf("compiling %s (%s)\n", source.file.RelativePath(), source.docSet.Mode)

		result, err := compile.Dispatch(source.docSet, state)
		if err != nil {
			return err
		}
		results[i] = &result
	}

	return nil
}

func (Builder) hasMode(modes []yamlmeta.OutputMode, mode yamlmeta.OutputMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
