// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"strings"
)

var (
	suspiciousOutputDirectoryPaths = []string{"/", ".", "./", ""}
)

// UI reports files as they are written.
type UI interface {
	Printf(string, ...interface{})
}

// OutputDirectory is a directory owned by the tool: writing replaces
// its previous contents.
type OutputDirectory struct {
	path  string
	files []OutputFile
	ui    UI
}

func NewOutputDirectory(path string, files []OutputFile, ui UI) *OutputDirectory {
	return &OutputDirectory{path, files, ui}
}

func (d *OutputDirectory) Files() []OutputFile { return d.files }

// Validate checks that no two files share a destination and that the
// directory is not one that should never be cleared.
func (d *OutputDirectory) Validate() error {
	err := CheckOutputFiles(d.files)
	if err != nil {
		return err
	}

	for _, path := range suspiciousOutputDirectoryPaths {
		if d.path == path {
			return fmt.Errorf("Expected output directory path to not be one of '%s'",
				strings.Join(suspiciousOutputDirectoryPaths, "', '"))
		}
	}

	return nil
}

// Write clears the directory and writes every file into it.
func (d *OutputDirectory) Write() error {
	err := d.Validate()
	if err != nil {
		return err
	}

	err = os.RemoveAll(d.path)
	if err != nil {
		return err
	}

	return d.WriteFiles()
}

func (d *OutputDirectory) WriteFiles() error {
	err := os.MkdirAll(d.path, 0700)
	if err != nil {
		return err
	}

	for _, file := range d.files {
		d.ui.Printf("creating: %s\n", file.Path(d.path))

		err := file.Create(d.path)
		if err != nil {
			return err
		}
	}

	return nil
}

// CheckOutputFiles returns an error when files collide on a destination path.
func CheckOutputFiles(files []OutputFile) error {
	filePaths := map[string]struct{}{}

	for _, file := range files {
		path := file.RelativePath()
		if _, found := filePaths[path]; found {
			return fmt.Errorf("Multiple files have same output destination paths: %s", path)
		}
		filePaths[path] = struct{}{}
	}

	return nil
}
