//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package sampling

import (
	"sync"

	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/verticalmap"
)

// Registry stores the samples of a discovery run by focus. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	samples *verticalmap.Map[*Sample]
}

func NewRegistry(schema *lattice.Schema) *Registry {
	return &Registry{samples: verticalmap.New[*Sample](schema)}
}

// Add stores s unless a sample with the same focus and at least the same
// sampling ratio exists.
func (r *Registry) Add(s *Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.samples.Get(s.Focus()); ok && existing.SamplingRatio() >= s.SamplingRatio() {
		return
	}
	r.samples.Put(s.Focus(), s)
}

// Best returns the sample with the highest sampling ratio among those whose
// focus is a subset of v. Ties go to the more focused sample.
func (r *Registry) Best(v lattice.Vertical) (*Sample, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Sample
	for _, e := range r.samples.SubsetEntries(v) {
		ratio := e.Value.SamplingRatio()
		if best == nil || ratio > best.SamplingRatio() ||
			(ratio == best.SamplingRatio() && e.Key.Arity() > best.Focus().Arity()) {
			best = e.Value
		}
	}
	return best, best != nil
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.samples.Size()
}
