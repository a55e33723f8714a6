// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	yamlExts = []string{".yml", ".yaml"}
	jsonExts = []string{".json"}
)

type Type int

const (
	TypeUnknown Type = iota
	TypeYAML
	TypeJSON
)

type File struct {
	src     Source
	relPath string
}

// FilesOpts controls how paths given to NewFiles are enumerated.
type FilesOpts struct {
	Recursive bool
	Symlinks  SymlinkAllowOpts
}

// NewFiles returns files found at paths sorted by relative path within each path.
// A directory contributes its files (and, when recursive, files of its
// subdirectories) relative to the directory itself.
func NewFiles(paths []string, opts FilesOpts) ([]*File, error) {
	var fileSrcs []Source

	for _, path := range paths {
		if path == "-" {
			fileSrcs = append(fileSrcs, NewStdinSource())
			continue
		}

		fileInfo, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("Checking file '%s': %s", path, err)
		}

		if !fileInfo.IsDir() {
			fileSrcs = append(fileSrcs, NewLocalSource(path, ""))
			continue
		}

		selectedPaths, err := listDir(path, opts)
		if err != nil {
			return nil, err
		}
		for _, selectedPath := range selectedPaths {
			fileSrcs = append(fileSrcs, NewLocalSource(selectedPath, path))
		}
	}

	var files []*File

	for _, fileSrc := range fileSrcs {
		file, err := NewFileFromSource(fileSrc)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func listDir(dir string, opts FilesOpts) ([]string, error) {
	var selectedPaths []string

	symlinkOpts := opts.Symlinks
	symlinkOpts.AllowedDstPaths = append([]string{dir}, symlinkOpts.AllowedDstPaths...)

	err := filepath.Walk(dir, func(walkedPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if walkedPath != dir && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			err := Symlink{walkedPath}.IsAllowed(symlinkOpts)
			if err != nil {
				return err
			}
		}
		selectedPaths = append(selectedPaths, walkedPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Listing files '%s': %s", dir, err)
	}

	sort.Strings(selectedPaths)

	return selectedPaths, nil
}

func NewFileFromSource(fileSrc Source) (*File, error) {
	relPath, err := fileSrc.RelativePath()
	if err != nil {
		return nil, fmt.Errorf("Calculating relative path for '%s': %s", fileSrc.Description(), err)
	}

	return &File{src: fileSrc, relPath: filepath.ToSlash(relPath)}, nil
}

func MustNewFileFromSource(fileSrc Source) *File {
	file, err := NewFileFromSource(fileSrc)
	if err != nil {
		panic(err)
	}
	return file
}

func (r *File) Description() string    { return r.src.Description() }
func (r *File) RelativePath() string   { return r.relPath }
func (r *File) Bytes() ([]byte, error) { return r.src.Bytes() }

func (r *File) Type() Type {
	switch {
	case r.matchesExt(yamlExts):
		return TypeYAML
	case r.matchesExt(jsonExts):
		return TypeJSON
	default:
		return TypeUnknown
	}
}

// Stem is the relative path without its extension (eg "items" for "items.yml").
func (r *File) Stem() string {
	if !r.HasExt() {
		return r.relPath
	}
	return strings.TrimSuffix(r.relPath, filepath.Ext(r.relPath))
}

// HasExt is false for files such as "LICENSE" or ".gitignore".
func (r *File) HasExt() bool {
	return filepath.Ext(strings.TrimPrefix(filepath.Base(r.relPath), ".")) != ""
}

func (r *File) matchesExt(exts []string) bool {
	filename := filepath.Base(r.relPath)
	for _, ext := range exts {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func SplitPath(path string) ([]string, string) {
	pieces := strings.Split(path, "/")
	if len(pieces) == 1 {
		return nil, pieces[0]
	}
	return pieces[:len(pieces)-1], pieces[len(pieces)-1]
}

func JoinPath(pieces []string) string {
	return strings.Join(pieces, "/")
}
