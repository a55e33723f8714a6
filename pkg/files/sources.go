// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StdinName is the relative path given to data read from standard input.
const StdinName = "stdin.yml"

// Source provides the contents of a File along with the path it is
// known by within a project.
type Source interface {
	Description() string
	RelativePath() (string, error)
	Bytes() ([]byte, error)
}

var _ []Source = []Source{BytesSource{}, StdinSource{}, LocalSource{}}

// BytesSource is an in-memory file.
type BytesSource struct {
	path string
	data []byte
}

func NewBytesSource(path string, data []byte) BytesSource { return BytesSource{path, data} }

func (s BytesSource) Description() string           { return s.path }
func (s BytesSource) RelativePath() (string, error) { return s.path, nil }
func (s BytesSource) Bytes() ([]byte, error)        { return s.data, nil }

// StdinSource holds everything read from standard input. Reading happens
// once, on construction.
type StdinSource struct {
	bytes []byte
	err   error
}

func NewStdinSource() StdinSource {
	bs, err := ReadStdin()
	return StdinSource{bs, err}
}

func (s StdinSource) Description() string           { return "stdin" }
func (s StdinSource) RelativePath() (string, error) { return StdinName, nil }
func (s StdinSource) Bytes() ([]byte, error)        { return s.bytes, s.err }

// LocalSource is a file on disk. When root is set, the relative path
// is computed against root; otherwise it is the file's base name.
type LocalSource struct {
	path string
	root string
}

func NewLocalSource(path, root string) LocalSource { return LocalSource{path, root} }

func (s LocalSource) Description() string { return fmt.Sprintf("file '%s'", s.path) }

func (s LocalSource) RelativePath() (string, error) {
	if s.root == "" {
		return filepath.Base(s.path), nil
	}

	absPath, err := filepath.Abs(s.path)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unknown relative path for %s", s.path)
	}
	return rel, nil
}

func (s LocalSource) Bytes() ([]byte, error) { return os.ReadFile(s.path) }
