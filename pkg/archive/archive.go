// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apmanual/apworld/pkg/cmd/ui"
	"github.com/apmanual/apworld/pkg/files"
)

const (
	Ext = ".apworld"

	dataDir          = "data"
	manifestFileName = "archipelago.json"
)

type Archive struct {
	Prefix   string
	Data     []files.OutputFile
	Static   []*files.File
	Manifest []byte
}

// Entries lists archive contents in write order. Static files under a
// top-level "data" path or without an extension are left out.
func (a Archive) Entries(ui ui.UI) ([]files.OutputFile, error) {
	var entries []files.OutputFile

	for _, file := range a.Data {
		entries = append(entries, file.Under(a.Prefix, dataDir))
	}

	for _, file := range a.Static {
		if !a.isStatic(file) {
			ui.Debugf("skipping %s\n", file.RelativePath())
			continue
		}

		ui.Debugf("outputting %s\n", file.RelativePath())

		bs, err := file.Bytes()
		if err != nil {
			return nil, fmt.Errorf("Reading %s: %w", file.Description(), err)
		}
		entries = append(entries, files.NewOutputFile(file.RelativePath(), bs).Under(a.Prefix))
	}

	entries = append(entries, files.NewOutputFile(manifestFileName, a.Manifest))

	err := files.CheckOutputFiles(entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (a Archive) isStatic(file *files.File) bool {
	dirs, _ := files.SplitPath(file.RelativePath())
	if len(dirs) > 0 && dirs[0] == dataDir {
		return false
	}
	return file.HasExt()
}

// Write creates <outDir>/<prefix>.apworld and returns its path.
// The archive is written next to its destination and renamed into
// place, so a failed write leaves no archive behind.
func (a Archive) Write(outDir string, ui ui.UI) (string, error) {
	entries, err := a.Entries(ui)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(outDir, 0700)
	if err != nil {
		return "", fmt.Errorf("Creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(outDir, "."+a.Prefix+"-*"+Ext)
	if err != nil {
		return "", fmt.Errorf("Creating archive: %w", err)
	}
	tmpPath := tmpFile.Name()

	written, err := a.writeZip(tmpFile, entries)
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("Writing archive: %w", err)
	}

	archivePath := filepath.Join(outDir, a.Prefix+Ext)

	err = os.Rename(tmpPath, archivePath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("Moving archive into place: %w", err)
	}

	ui.Printf("APWorld archive (%d bytes) written to %s\n", written, archivePath)

	return archivePath, nil
}

func (a Archive) writeZip(w io.Writer, entries []files.OutputFile) (int64, error) {
	counter := &countingWriter{w: w}

	zipWriter := zip.NewWriter(counter)
	zipWriter.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:   strings.TrimPrefix(entry.RelativePath(), "/"),
			Method: zip.Deflate,
		}

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return 0, fmt.Errorf("Creating entry '%s': %w", header.Name, err)
		}

		_, err = writer.Write(entry.Bytes())
		if err != nil {
			return 0, fmt.Errorf("Writing entry '%s': %w", header.Name, err)
		}
	}

	err := zipWriter.Close()
	if err != nil {
		return 0, err
	}

	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(data []byte) (int, error) {
	n, err := c.w.Write(data)
	c.n += int64(n)
	return n, err
}
