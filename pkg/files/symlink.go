// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SymlinkAllowOpts lists directories outside of a listed directory that
// symlinks may resolve into. The listed directory itself is always allowed.
type SymlinkAllowOpts struct {
	AllowedDstPaths []string
}

// Symlink is a symlinked file found while listing a source directory.
type Symlink struct {
	path string
}

// IsAllowed returns an error unless the symlink resolves into one of
// the allowed directories.
func (s Symlink) IsAllowed(opts SymlinkAllowOpts) error {
	dstPath, err := resolvePath(s.path)
	if err != nil {
		return err
	}

	for _, allowedPath := range opts.AllowedDstPaths {
		allowedPath, err := resolvePath(allowedPath)
		if err != nil {
			return err
		}
		if isWithin(dstPath, allowedPath) {
			return nil
		}
	}

	return fmt.Errorf("Expected symlink file '%s' -> '%s' to point inside the project, but did not", s.path, dstPath)
}

func resolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("Eval symlink: %s", err)
	}
	// Abs runs clean on the result
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("Abs path '%s': %s", resolved, err)
	}
	return resolved, nil
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
