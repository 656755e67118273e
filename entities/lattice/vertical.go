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

import "strings"

// Vertical is a set of columns of one schema. Verticals are values: every
// operation returns a new vertical and leaves its operands untouched.
type Vertical struct {
	schema *Schema
	bits   Bitset
}

func (v Vertical) Schema() *Schema {
	return v.schema
}

// Bits returns a copy of the underlying bitset.
func (v Vertical) Bits() Bitset {
	return v.bits.Clone()
}

func (v Vertical) Arity() int {
	return v.bits.SetCount()
}

func (v Vertical) IsEmpty() bool {
	return v.bits.IsEmpty()
}

func (v Vertical) Has(column int) bool {
	return v.bits.IsSet(column)
}

// Contains reports whether other is a subset of v.
func (v Vertical) Contains(other Vertical) bool {
	return v.bits.ContainsAll(other.bits)
}

func (v Vertical) Intersects(other Vertical) bool {
	return v.bits.Intersects(other.bits)
}

func (v Vertical) Union(other Vertical) Vertical {
	return Vertical{schema: v.schema, bits: v.bits.Or(other.bits)}
}

func (v Vertical) Intersect(other Vertical) Vertical {
	return Vertical{schema: v.schema, bits: v.bits.And(other.bits)}
}

func (v Vertical) Without(other Vertical) Vertical {
	return Vertical{schema: v.schema, bits: v.bits.AndNot(other.bits)}
}

// Invert returns the complement of v within the schema.
func (v Vertical) Invert() Vertical {
	return Vertical{schema: v.schema, bits: v.bits.Not()}
}

// InvertWithin returns the complement of v within scope.
func (v Vertical) InvertWithin(scope Vertical) Vertical {
	return scope.Without(v)
}

func (v Vertical) With(column int) Vertical {
	bits := v.bits.Clone()
	bits.Set(column)
	return Vertical{schema: v.schema, bits: bits}
}

// Parents returns all subsets of v with exactly one column less.
func (v Vertical) Parents() []Vertical {
	if v.Arity() < 1 {
		return nil
	}

	parents := make([]Vertical, 0, v.Arity())
	for i := v.bits.NextSet(0); i >= 0; i = v.bits.NextSet(i + 1) {
		bits := v.bits.Clone()
		bits.Unset(i)
		parents = append(parents, Vertical{schema: v.schema, bits: bits})
	}
	return parents
}

func (v Vertical) Indices() []int {
	indices := make([]int, 0, v.Arity())
	for i := v.bits.NextSet(0); i >= 0; i = v.bits.NextSet(i + 1) {
		indices = append(indices, i)
	}
	return indices
}

func (v Vertical) Columns() []*Column {
	columns := make([]*Column, 0, v.Arity())
	for i := v.bits.NextSet(0); i >= 0; i = v.bits.NextSet(i + 1) {
		columns = append(columns, v.schema.columns[i])
	}
	return columns
}

func (v Vertical) Equal(other Vertical) bool {
	return v.bits.Equal(other.bits)
}

// Key identifies v among the verticals of its schema.
func (v Vertical) Key() string {
	return v.bits.Key()
}

// Compare orders verticals lexicographically by their sorted column indices,
// a proper prefix sorting first.
func (v Vertical) Compare(other Vertical) int {
	i, j := v.bits.NextSet(0), other.bits.NextSet(0)
	for i >= 0 && j >= 0 {
		if i != j {
			if i < j {
				return -1
			}
			return 1
		}
		i, j = v.bits.NextSet(i+1), other.bits.NextSet(j+1)
	}

	switch {
	case i < 0 && j < 0:
		return 0
	case i < 0:
		return -1
	default:
		return 1
	}
}

func (v Vertical) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for n, c := range v.Columns() {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.name)
	}
	sb.WriteByte(']')
	return sb.String()
}
