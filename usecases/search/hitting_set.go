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

package search

import (
	"sort"

	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/verticalmap"
)

// hittingSet computes the minimal verticals intersecting every one of
// verticals. Members for which prune returns true are never added, so the
// result may be incomplete when a prune function is given.
func (s *SearchSpace) hittingSet(verticals []lattice.Vertical, prune func(lattice.Vertical) bool) []lattice.Vertical {
	return minimalHittingSet(s.ctx.Schema(), verticals, prune)
}

func minimalHittingSet(schema *lattice.Schema, verticals []lattice.Vertical,
	prune func(lattice.Vertical) bool,
) []lattice.Vertical {
	sorted := make([]lattice.Vertical, len(verticals))
	copy(sorted, verticals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Arity() < sorted[j].Arity()
	})

	consolidated := verticalmap.New[struct{}](schema)
	hitting := verticalmap.New[struct{}](schema)
	hitting.Put(schema.EmptyVertical(), struct{}{})

	for _, v := range sorted {
		// a subset already processed is harder to hit
		if _, ok := consolidated.AnySubsetEntry(v, nil); ok {
			continue
		}
		consolidated.Put(v, struct{}{})

		missing := hitting.SubsetKeys(v.Invert())
		for _, m := range missing {
			hitting.Remove(m)
		}

		for _, m := range missing {
			for _, col := range v.Indices() {
				candidate := m.With(col)
				if _, ok := hitting.AnySubsetEntry(candidate, nil); ok {
					continue
				}
				if prune != nil && prune(candidate) {
					continue
				}
				hitting.Put(candidate, struct{}{})
			}
		}

		if hitting.IsEmpty() {
			break
		}
	}

	return hitting.Keys()
}
