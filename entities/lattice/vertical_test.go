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

func testSchema(t *testing.T) *Schema {
	s, err := NewSchema("abcd", "A", "B", "C", "D")
	require.Nil(t, err)
	return s
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	_, err := NewSchema("dup", "A", "B", "A")
	require.NotNil(t, err)
}

func TestVerticalOperations(t *testing.T) {
	s := testSchema(t)

	ab := s.VerticalOf(0, 1)
	bc := s.VerticalOf(1, 2)

	assert.Equal(t, 2, ab.Arity())
	assert.Equal(t, "[A, B, C]", ab.Union(bc).String())
	assert.Equal(t, "[A]", ab.Without(bc).String())
	assert.Equal(t, "[B]", ab.Intersect(bc).String())
	assert.Equal(t, "[C, D]", ab.Invert().String())
	assert.Equal(t, "[C]", ab.InvertWithin(s.VerticalOf(0, 1, 2)).String())
	assert.True(t, ab.Union(bc).Contains(ab))
	assert.False(t, ab.Contains(bc))
	assert.True(t, ab.Contains(s.EmptyVertical()))
	assert.Equal(t, []int{0, 1}, ab.Indices())
	assert.Equal(t, "[A, B, D]", ab.With(3).String())
	assert.Equal(t, "[A, B]", ab.String(), "operands are never modified")
	assert.Equal(t, "[]", s.EmptyVertical().String())
	assert.Equal(t, 4, s.FullVertical().Arity())
}

func TestVerticalParents(t *testing.T) {
	s := testSchema(t)

	assert.Nil(t, s.EmptyVertical().Parents())

	parents := s.VerticalOf(0, 2, 3).Parents()
	require.Len(t, parents, 3)
	names := make([]string, len(parents))
	for i, p := range parents {
		names[i] = p.String()
	}
	assert.ElementsMatch(t, []string{"[C, D]", "[A, D]", "[A, C]"}, names)
}

func TestVerticalCompare(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name     string
		a, b     Vertical
		expected int
	}{
		{"equal", s.VerticalOf(0, 2), s.VerticalOf(0, 2), 0},
		{"prefix first", s.VerticalOf(0), s.VerticalOf(0, 1), -1},
		{"first differing column", s.VerticalOf(0, 3), s.VerticalOf(1, 2), -1},
		{"later column", s.VerticalOf(1, 3), s.VerticalOf(1, 2), 1},
		{"empty first", s.EmptyVertical(), s.VerticalOf(3), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.expected, tt.b.Compare(tt.a))
		})
	}
}

func TestVerticalKeyIdentity(t *testing.T) {
	s := testSchema(t)

	assert.Equal(t, s.VerticalOf(1, 2).Key(), s.VerticalOf(2).Union(s.VerticalOf(1)).Key())
	assert.NotEqual(t, s.VerticalOf(1).Key(), s.VerticalOf(2).Key())
	assert.True(t, s.VerticalOf(1, 2).Equal(s.VerticalOf(2, 1)))
}

func TestVerticalFromBitsetWidth(t *testing.T) {
	s := testSchema(t)
	assert.Panics(t, func() { s.VerticalFromBitset(NewBitset(5)) })
	assert.Equal(t, "[B]", s.VerticalFromBitset(s.VerticalOf(1).Bits()).String())
}
