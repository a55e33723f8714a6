// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	cmdui "github.com/apmanual/apworld/pkg/cmd/ui"
	"github.com/apmanual/apworld/pkg/files"
	"github.com/apmanual/apworld/pkg/workspace"
	"github.com/spf13/cobra"
)

type CompileOptions struct {
	Files     []string
	OutputDir string
	Recursive bool
	Debug     bool
}

func NewCompileOptions() *CompileOptions {
	return &CompileOptions{}
}

func NewCompileCmd(o *CompileOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compile",
		Aliases: []string{"c"},
		Short:   "Compile YAML files into JSON without packaging",
		RunE:    func(cmd *cobra.Command, _ []string) error { return o.Run(cmd.Context()) },
	}
	cmd.Flags().StringSliceVarP(&o.Files, "file", "f", nil, "File or directory to compile (can be specified multiple times; '-' for stdin)")
	cmd.Flags().StringVarP(&o.OutputDir, "output-dir", "o", "", "Directory to write JSON files into (contents are replaced)")
	cmd.Flags().BoolVarP(&o.Recursive, "recursive", "R", false, "Include subdirectories")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *CompileOptions) Run(ctx context.Context) error {
	return o.RunWithUI(ctx, cmdui.NewTTY(o.Debug))
}

// RunWithUI prints compiled JSON documents one after another to stdout
// unless an output directory is given.
func (o *CompileOptions) RunWithUI(ctx context.Context, ui cmdui.UI) error {
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	if len(o.Files) == 0 {
		return fmt.Errorf("Expected at least one file to be specified via -f")
	}

	srcFiles, err := files.NewFiles(o.Files, files.FilesOpts{Recursive: o.Recursive})
	if err != nil {
		return err
	}

	output, err := workspace.NewBuilder(ui).Build(ctx, srcFiles)
	if err != nil {
		return err
	}

	if o.OutputDir != "" {
		return files.NewOutputDirectory(o.OutputDir, output.Files, ui).Write()
	}

	for _, file := range output.Files {
		ui.Debugf("%s\n", file.RelativePath())
		ui.Printf("%s\n", file.Bytes())
	}

	return nil
}
