// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads project settings from an optional apworld.toml file.

Command line flags take precedence over values from the file, which take
precedence over defaults.
*/
package config
