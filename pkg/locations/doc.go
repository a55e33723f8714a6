// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package locations expands a location tree into a flat list of checks.

A locations file holds two documents: a tag dictionary and the location tree.

	Key:
	  requires: "|Key|"
	  category: [Keys]
	  t: [Lock]
	---
	- track: {name: Forest, category: [Outdoors]}
	  region: {name: Forest, connects_to: [Cave]}
	  checks:
	  - name: Chest
	    t: [Key]
	- name: Reward

Tags applied through "t" contribute their requires (ANDed) and categories to
the check, and every application is counted in an accumulator.TagUsage. Inline
regions are registered in an accumulator.Regions.
*/
package locations
