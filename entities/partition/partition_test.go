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

package partition

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValues(t *testing.T) {
	p := FromValues([]int{7, 3, 7, 1, 3, 7})

	require.Equal(t, [][]int{{0, 2, 5}, {1, 4}}, p.Clusters())
	assert.Equal(t, 6, p.NumRows())
	assert.Equal(t, 5, p.Size())
	assert.Equal(t, uint64(4), p.NEP())
	assert.Equal(t, uint64(11), p.NIP())
	assert.False(t, p.IsUnique())

	expectedEntropy := math.Log(6) - (3*math.Log(3)+2*math.Log(2))/6
	assert.InDelta(t, expectedEntropy, p.Entropy(), 1e-12)

	assert.Equal(t, []int{1, 2, 1, Singleton, 2, 1}, p.ProbingTable())
}

func TestUniqueAndFull(t *testing.T) {
	unique := FromValues([]int{1, 2, 3})
	assert.True(t, unique.IsUnique())
	assert.Zero(t, unique.NEP())
	assert.Equal(t, uint64(3), unique.NIP())
	assert.InDelta(t, math.Log(3), unique.Entropy(), 1e-12)

	full := Full(4)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, full.Clusters())
	assert.Equal(t, uint64(6), full.NEP())
	assert.Zero(t, full.NIP())
	assert.InDelta(t, 0, full.Entropy(), 1e-12)

	assert.True(t, Full(1).IsUnique())
}

func TestIntersect(t *testing.T) {
	a := FromValues([]int{1, 1, 1, 2, 2, 3})
	b := FromValues([]int{5, 5, 6, 6, 6, 6})

	ab := a.Intersect(b)
	assert.Equal(t, [][]int{{0, 1}, {3, 4}}, ab.Clusters())
	assert.True(t, ab.Equal(b.Intersect(a)))
	assert.Equal(t, uint64(2), ab.NEP())
}

// combine builds the value ids of the union of columns by pairing the ids.
func combine(columns ...[]int) []int {
	ids := make(map[string]int)
	combined := make([]int, len(columns[0]))
	for row := range combined {
		key := make([]byte, 0, len(columns)*8)
		for _, c := range columns {
			key = append(key, byte(c[row]), byte(c[row]>>8), ',')
		}
		id, ok := ids[string(key)]
		if !ok {
			id = len(ids)
			ids[string(key)] = id
		}
		combined[row] = id
	}
	return combined
}

func TestRefinementRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for run := 0; run < 20; run++ {
		numRows := 50 + r.Intn(100)
		columns := make([][]int, 4)
		for i := range columns {
			columns[i] = make([]int, numRows)
			domain := 2 + r.Intn(6)
			for row := range columns[i] {
				columns[i][row] = r.Intn(domain)
			}
		}

		left := FromValues(combine(columns[0], columns[1]))
		right := FromValues(combine(columns[2], columns[3]))
		expected := FromValues(combine(columns...))

		require.True(t, expected.Equal(left.Intersect(right)), "run %d", run)

		base := FromValues(columns[0])
		tables := [][]int{
			FromValues(columns[1]).ProbingTable(),
			FromValues(columns[2]).ProbingTable(),
			FromValues(columns[3]).ProbingTable(),
		}
		require.True(t, expected.Equal(base.ProbeAll(tables)), "run %d", run)
		assert.Equal(t, expected.NEP(), base.ProbeAll(tables).NEP())
	}
}

func TestFreq(t *testing.T) {
	p := FromValues([]int{1, 1})
	assert.Zero(t, p.Freq())
	p.IncFreq()
	p.IncFreq()
	assert.Equal(t, uint64(2), p.Freq())
}
