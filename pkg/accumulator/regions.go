// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package accumulator

import (
	"sync"

	"github.com/apmanual/apworld/pkg/errs"
	"github.com/apmanual/apworld/pkg/filepos"
	"github.com/apmanual/apworld/pkg/orderedmap"
)

type Regions struct {
	mu        sync.Mutex
	regions   *orderedmap.Map
	positions map[string]*filepos.Position
}

func NewRegions() *Regions {
	return &Regions{regions: orderedmap.NewMap(), positions: map[string]*filepos.Position{}}
}

// Register stores a region body under name. A name may only be registered once.
func (r *Regions) Register(name string, body *orderedmap.Map, pos *filepos.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prevPos, found := r.positions[name]; found {
		return errs.NewStructuralError(pos, "Region '%s' is already defined (%s)", name, prevPos.AsCompactString())
	}
	r.regions.Set(name, body)
	r.positions[name] = pos
	return nil
}

func (r *Regions) Get(name string) (*orderedmap.Map, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	val, found := r.regions.Get(name)
	if !found {
		return nil, false
	}
	return val.(*orderedmap.Map), true
}

func (r *Regions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regions.Len()
}

// AsMap returns a copy in registration order.
func (r *Regions) AsMap() *orderedmap.Map {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regions.DeepCopy()
}
