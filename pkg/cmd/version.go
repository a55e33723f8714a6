// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/apmanual/apworld/pkg/manifest"
	"github.com/apmanual/apworld/pkg/version"
	"github.com/spf13/cobra"
)

type VersionOptions struct {
	out io.Writer
}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{out: os.Stdout}
}

func NewVersionCmd(o *VersionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and the archive manifest version it writes",
		RunE:  func(cmd *cobra.Command, _ []string) error { return o.Run(cmd.OutOrStdout()) },
	}
	return cmd
}

// Run prints to out, falling back to the writer given at construction.
func (o *VersionOptions) Run(out io.Writer) error {
	if out == nil {
		out = o.out
	}

	fmt.Fprintf(out, "apworld version %s\n", version.Version)
	fmt.Fprintf(out, "manifest version %d (compatible with %d)\n", manifest.Version, manifest.CompatibleVersion)

	return nil
}
