// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package accumulator

import (
	"sort"
	"sync"

	"github.com/apmanual/apworld/pkg/errs"
)

type TagUsage struct {
	mu     sync.Mutex
	counts map[string]int
	frozen bool
}

func NewTagUsage() *TagUsage {
	return &TagUsage{counts: map[string]int{}}
}

func (u *TagUsage) Inc(tag string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.frozen {
		return errs.NewStructuralError(nil, "Tag usage is frozen; cannot count tag '%s'", tag).
			WithHint("location files must be compiled before option files")
	}
	u.counts[tag]++
	return nil
}

// Get returns the usage count and whether the tag was ever applied.
func (u *TagUsage) Get(tag string) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	count, found := u.counts[tag]
	return count, found
}

func (u *TagUsage) Freeze() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.frozen = true
}

func (u *TagUsage) IsFrozen() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.frozen
}

func (u *TagUsage) Snapshot() map[string]int {
	u.mu.Lock()
	defer u.mu.Unlock()

	result := make(map[string]int, len(u.counts))
	for k, v := range u.counts {
		result[k] = v
	}
	return result
}

func (u *TagUsage) Names() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	var names []string
	for k := range u.counts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
