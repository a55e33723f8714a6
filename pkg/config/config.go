// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultFileName = "apworld.toml"

type Config struct {
	// Src holds YAML sources compiled into data files
	Src string `toml:"src"`
	// Dist holds static files copied into the archive
	Dist string `toml:"dist"`
	// Out receives the archive
	Out string `toml:"out"`

	// Project metadata files; relative to the working directory
	Package     string `toml:"package"`
	Archipelago string `toml:"archipelago"`

	Recursive bool `toml:"recursive"`

	// AllowedSymlinkPaths lists directories outside Src that symlinks may point into
	AllowedSymlinkPaths []string `toml:"allowed_symlink_paths"`
}

func NewDefaultConfig() Config {
	return Config{
		Src:         "src",
		Dist:        "dist",
		Out:         "out",
		Package:     "package.json",
		Archipelago: "archipelago.json",
	}
}

// LoadFile overlays values found in the TOML file at path onto defaults.
// A missing file is only an error when required is true.
func LoadFile(path string, required bool) (Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("Reading config file '%s': %w", path, err)
	}

	return Parse(data, path, cfg)
}

// Parse decodes data over base. Unknown keys are rejected.
func Parse(data []byte, path string, base Config) (Config, error) {
	cfg := base

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("Parsing config file '%s': %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("Parsing config file '%s': unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Validate checks that required paths are set.
func (c Config) Validate() error {
	var missing []string
	for _, field := range []struct{ name, val string }{
		{"src", c.Src},
		{"dist", c.Dist},
		{"out", c.Out},
	} {
		if field.val == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("Expected config to set %s", strings.Join(missing, ", "))
	}
	return nil
}
