// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package flatten resolves trees of grouped items into a flat list.

A group is a mapping with a "common" mapping and a "data" list:

	- common: {category: [Weapons], progression: true}
	  data:
	  - name: Sword
	  - common: {count: 2}
	    data:
	    - name: Arrow

Each leaf is plain-merged over the commons of all its enclosing groups, with
the leaf's own fields winning. Output keeps depth-first order.
*/
package flatten
