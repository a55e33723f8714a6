// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/apmanual/apworld/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

const (
	cmdGroupKey   = "apworld-group"
	cmdGroupBuild = "build"
	cmdGroupMisc  = "misc"
)

type ApworldOptions struct{}

func NewDefaultApworldOptions() *ApworldOptions {
	return &ApworldOptions{}
}

func NewDefaultApworldCmd() *cobra.Command {
	return NewApworldCmd(NewDefaultApworldOptions())
}

func NewApworldCmd(o *ApworldOptions) *cobra.Command {
	cmd := NewBuildCmd(NewBuildOptions())

	cmd.Use = "apworld"
	cmd.Version = version.Version
	cmd.Short = "apworld compiles YAML manual worlds into an .apworld archive"
	cmd.Long = `apworld compiles YAML manual worlds into an .apworld archive.

YAML files in the source directory are converted into JSON data files.
A file may start with directives such as:

  #%output locations
  #%schema https://example.com/schema.json

Running apworld without a subcommand builds the archive.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(withGroup(NewBuildCmd(NewBuildOptions()), cmdGroupBuild))
	cmd.AddCommand(withGroup(NewCompileCmd(NewCompileOptions()), cmdGroupBuild))
	cmd.AddCommand(withGroup(NewVersionCmd(NewVersionOptions()), cmdGroupMisc))

	cmd.SetUsageTemplate(cobrautil.HelpSectionsUsageTemplate([]cobrautil.HelpSection{
		{Key: cmdGroupKey, Value: cmdGroupBuild, Title: "Build Commands:"},
		{Key: cmdGroupKey, Value: cmdGroupMisc, Title: "Misc Commands:"},
	}))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.Annotations = map[string]string{cmdGroupKey: group}
	return cmd
}
