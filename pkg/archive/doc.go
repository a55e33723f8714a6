// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package archive bundles compiled data, static distribution files and the
manifest into a single <prefix>.apworld zip file:

	<prefix>/data/<compiled>.json
	<prefix>/<static files>
	archipelago.json
*/
package archive
