// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/apmanual/apworld/pkg/archive"
	cmdui "github.com/apmanual/apworld/pkg/cmd/ui"
	"github.com/apmanual/apworld/pkg/config"
	"github.com/apmanual/apworld/pkg/files"
	"github.com/apmanual/apworld/pkg/manifest"
	"github.com/apmanual/apworld/pkg/workspace"
	"github.com/spf13/cobra"
)

type BuildOptions struct {
	ConfigPath string
	Debug      bool

	// Empty values fall back to the config file, then to defaults
	Src  string
	Dist string
	Out  string
}

func NewBuildOptions() *BuildOptions {
	return &BuildOptions{}
}

func NewBuildCmd(o *BuildOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile sources and write the .apworld archive",
		RunE:  func(cmd *cobra.Command, _ []string) error { return o.Run(cmd.Context()) },
	}
	cmd.Flags().StringVar(&o.ConfigPath, "config", "", "Config file path (default '"+config.DefaultFileName+"' if present)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().StringVar(&o.Src, "src", "", "Directory with YAML sources (default 'src')")
	cmd.Flags().StringVar(&o.Dist, "dist", "", "Directory with static files to bundle (default 'dist')")
	cmd.Flags().StringVar(&o.Out, "out", "", "Directory to write the archive into (default 'out')")
	return cmd
}

func (o *BuildOptions) Run(ctx context.Context) error {
	return o.RunWithUI(ctx, cmdui.NewTTY(o.Debug))
}

func (o *BuildOptions) RunWithUI(ctx context.Context, ui cmdui.UI) error {
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := o.config()
	if err != nil {
		return err
	}

	srcFiles, err := files.NewFiles([]string{cfg.Src}, filesOpts(cfg))
	if err != nil {
		return err
	}

	output, err := workspace.NewBuilder(ui).Build(ctx, srcFiles)
	if err != nil {
		return err
	}

	generator := manifest.NewGenerator(ui)

	inputs, err := generator.LoadInputs(filepath.Join(cfg.Src, manifest.GameFileName), cfg.Package, cfg.Archipelago)
	if err != nil {
		return err
	}

	manifestBs, err := generator.GenerateJSON(inputs)
	if err != nil {
		return err
	}

	staticFiles, err := o.staticFiles(cfg, ui)
	if err != nil {
		return err
	}

	_, err = archive.Archive{
		Prefix:   inputs.Prefix,
		Data:     output.Files,
		Static:   staticFiles,
		Manifest: manifestBs,
	}.Write(cfg.Out, ui)

	return err
}

func (o *BuildOptions) config() (config.Config, error) {
	path, required := o.ConfigPath, true
	if path == "" {
		path, required = config.DefaultFileName, false
	}

	cfg, err := config.LoadFile(path, required)
	if err != nil {
		return config.Config{}, err
	}

	if o.Src != "" {
		cfg.Src = o.Src
	}
	if o.Dist != "" {
		cfg.Dist = o.Dist
	}
	if o.Out != "" {
		cfg.Out = o.Out
	}

	return cfg, cfg.Validate()
}

func (o *BuildOptions) staticFiles(cfg config.Config, ui cmdui.UI) ([]*files.File, error) {
	_, err := os.Stat(cfg.Dist)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ui.Warnf("Static files directory '%s' does not exist, skipping\n", cfg.Dist)
			return nil, nil
		}
		return nil, fmt.Errorf("Checking static files directory: %w", err)
	}

	opts := filesOpts(cfg)
	opts.Recursive = true

	return files.NewFiles([]string{cfg.Dist}, opts)
}

func filesOpts(cfg config.Config) files.FilesOpts {
	return files.FilesOpts{
		Recursive: cfg.Recursive,
		Symlinks:  files.SymlinkAllowOpts{AllowedDstPaths: cfg.AllowedSymlinkPaths},
	}
}
