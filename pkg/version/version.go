// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the release version, set at build time via
// -ldflags "-X github.com/apmanual/apworld/pkg/version.Version=..."
package version

var (
	Version = "develop"
)
