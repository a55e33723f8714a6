// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package manifest derives the world's identity from project metadata: the
game prefix (manual_<game>_<creator>) read from game.yml and the
archipelago.json manifest generated from package.json.
*/
package manifest
