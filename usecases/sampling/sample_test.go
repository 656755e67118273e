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
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/depminer/entities/partition"
	"github.com/weaviate/depminer/entities/relation"
)

func abcdRelation(t *testing.T) *relation.Relation {
	rel, err := relation.FromRecords("abcd", []string{"A", "B", "C", "D"}, [][]string{
		{"1", "1", "1", "x"},
		{"1", "2", "2", "x"},
		{"2", "1", "2", "y"},
		{"2", "2", "1", "y"},
		{"3", "1", "1", "z"},
		{"3", "2", "2", "z"},
	}, true)
	require.Nil(t, err)
	return rel
}

func TestExhaustiveSampleIsExact(t *testing.T) {
	rel := abcdRelation(t)
	s := rel.Schema()
	rng := rand.New(rand.NewSource(1))

	sample := NewFocusedSample(rel, s.VerticalOf(1), rel.ColumnData(1).Partition(), 500, rng)
	require.True(t, sample.IsExact())
	assert.Equal(t, uint64(6), sample.Population())
	assert.Equal(t, uint64(6), sample.Size())
	assert.Equal(t, 1.0, sample.SamplingRatio())

	est := sample.EstimateMixed(s.VerticalOf(1), s.VerticalOf(3), 0.9)
	assert.True(t, est.IsPoint())
	assert.InDelta(t, 6.0/15, est.Mean, 1e-12)

	est = sample.EstimateAgreements(s.VerticalOf(1, 2), 0.9)
	assert.InDelta(t, 2.0/15, est.Mean, 1e-12)

	assert.Equal(t, uint64(2), sample.NumAgreeSupersets(s.VerticalOf(1, 2), s.EmptyVertical()))
	assert.Panics(t, func() { sample.EstimateMixed(s.VerticalOf(0), s.VerticalOf(3), 0.9) })
}

func TestUniqueFocusEstimatesZero(t *testing.T) {
	rel, err := relation.FromRecords("u", []string{"U", "X"}, [][]string{
		{"1", "a"}, {"2", "a"}, {"3", "b"},
	}, true)
	require.Nil(t, err)
	s := rel.Schema()

	sample := NewFocusedSample(rel, s.VerticalOf(0), rel.ColumnData(0).Partition(), 10,
		rand.New(rand.NewSource(1)))
	assert.True(t, sample.IsExact())
	assert.Equal(t, 0.0, sample.EstimateMixed(s.VerticalOf(0), s.VerticalOf(1), 0.9).Max)
}

func TestDrawnSample(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	rows := make([][]string, 200)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i % 2), fmt.Sprint(r.Intn(3)), fmt.Sprint(r.Intn(50))}
	}
	rel, err := relation.FromRecords("drawn", []string{"A", "B", "C"}, rows, true)
	require.Nil(t, err)
	s := rel.Schema()

	exact := NewFocusedSample(rel, s.VerticalOf(0), rel.ColumnData(0).Partition(), 1<<20,
		rand.New(rand.NewSource(2)))
	drawn := NewFocusedSample(rel, s.VerticalOf(0), rel.ColumnData(0).Partition(), 100,
		rand.New(rand.NewSource(2)))

	require.False(t, drawn.IsExact())
	assert.Equal(t, uint64(100), drawn.Size())
	assert.Equal(t, uint64(9900), drawn.Population())
	assert.InDelta(t, 100.0/9900, drawn.SamplingRatio(), 1e-12)

	truth := exact.EstimateMixed(s.VerticalOf(0), s.VerticalOf(1), 0.9)
	require.True(t, truth.IsPoint())

	est := drawn.EstimateMixed(s.VerticalOf(0), s.VerticalOf(1), 0.9)
	assert.False(t, est.IsPoint())
	assert.LessOrEqual(t, est.Min, est.Mean)
	assert.LessOrEqual(t, est.Mean, est.Max)
	assert.GreaterOrEqual(t, est.Min, 0.0)
	assert.LessOrEqual(t, est.Max, float64(drawn.Population())/float64(rel.NumTuplePairs()))

	wider := drawn.EstimateMixed(s.VerticalOf(0), s.VerticalOf(1), 0.99)
	assert.Less(t, wider.Min, est.Min)
	assert.Greater(t, wider.Max, est.Max)
}

func TestRegistryBest(t *testing.T) {
	rel := abcdRelation(t)
	s := rel.Schema()
	rng := rand.New(rand.NewSource(1))
	registry := NewRegistry(s)

	full := partition.Full(rel.NumRows())
	registry.Add(NewFocusedSample(rel, s.EmptyVertical(), full, 3, rng))
	registry.Add(NewFocusedSample(rel, s.VerticalOf(1), rel.ColumnData(1).Partition(), 500, rng))

	best, ok := registry.Best(s.VerticalOf(1, 2))
	require.True(t, ok)
	assert.True(t, best.Focus().Equal(s.VerticalOf(1)))

	best, ok = registry.Best(s.VerticalOf(2))
	require.True(t, ok)
	assert.True(t, best.Focus().IsEmpty())

	// a worse sample for an existing focus is ignored
	registry.Add(NewFocusedSample(rel, s.VerticalOf(1), rel.ColumnData(1).Partition(), 1, rng))
	best, _ = registry.Best(s.VerticalOf(1))
	assert.True(t, best.IsExact())
	assert.Equal(t, 2, registry.Size())
}
