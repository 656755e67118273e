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

package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSet(t *testing.T) {
	bsetSize := 130

	bset := NewBitset(bsetSize)

	require.Zero(t, bset.SetCount())
	require.Equal(t, -1, bset.NextSet(0))

	for i := 0; i < bsetSize; i++ {
		require.False(t, bset.IsSet(i))
	}

	for i := 0; i < bsetSize; i += 3 {
		bset.Set(i)
		require.True(t, bset.IsSet(i))
	}

	require.Equal(t, 44, bset.SetCount())
	require.Equal(t, 63, bset.NextSet(61))
	require.Equal(t, 129, bset.NextSet(128))
	require.Equal(t, -1, bset.NextSet(130))

	inverted := bset.Not()
	require.Equal(t, bsetSize-44, inverted.SetCount())
	require.False(t, inverted.Intersects(bset))
	require.True(t, inverted.Or(bset).Equal(NewBitset(bsetSize).Not()))

	bset.Unset(0)
	require.False(t, bset.IsSet(0))
	require.Equal(t, 43, bset.SetCount())
}

func TestBitSetCombinations(t *testing.T) {
	a := NewBitset(8)
	a.Set(1).Set(2).Set(5)
	b := NewBitset(8)
	b.Set(2).Set(5)

	assert.True(t, a.ContainsAll(b))
	assert.False(t, b.ContainsAll(a))
	assert.Equal(t, 1, a.AndNot(b).SetCount())
	assert.True(t, a.And(b).Equal(b))
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, b.Key(), a.And(b).Key())

	clone := a.Clone()
	clone.Unset(1)
	assert.True(t, a.IsSet(1))
	assert.True(t, clone.Equal(b))
}

func TestBitSetSizeMismatch(t *testing.T) {
	assert.Panics(t, func() { NewBitset(3).Or(NewBitset(4)) })
	assert.Panics(t, func() { NewBitset(3).IsSet(3) })
}
