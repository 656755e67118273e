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
	"fmt"

	"github.com/pkg/errors"
)

// Column is a named attribute of a schema, identified by its position.
type Column struct {
	schema *Schema
	name   string
	index  int
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) Index() int {
	return c.index
}

func (c *Column) Schema() *Schema {
	return c.schema
}

// Vertical returns the single-column vertical of c.
func (c *Column) Vertical() Vertical {
	return c.schema.VerticalOf(c.index)
}

func (c *Column) String() string {
	return c.name
}

// Schema is the ordered, immutable list of columns of a relation. It fixes the
// bit width of every Vertical built from it.
type Schema struct {
	name    string
	columns []*Column
}

func NewSchema(name string, columnNames ...string) (*Schema, error) {
	s := &Schema{name: name, columns: make([]*Column, 0, len(columnNames))}

	seen := make(map[string]struct{}, len(columnNames))
	for i, cn := range columnNames {
		if _, ok := seen[cn]; ok {
			return nil, errors.Errorf("duplicate column %q in schema %q", cn, name)
		}
		seen[cn] = struct{}{}
		s.columns = append(s.columns, &Column{schema: s, name: cn, index: i})
	}

	return s, nil
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) NumColumns() int {
	return len(s.columns)
}

func (s *Schema) Column(i int) *Column {
	return s.columns[i]
}

func (s *Schema) Columns() []*Column {
	return s.columns
}

func (s *Schema) ColumnByName(name string) (*Column, bool) {
	for _, c := range s.columns {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (s *Schema) EmptyVertical() Vertical {
	return Vertical{schema: s, bits: NewBitset(len(s.columns))}
}

func (s *Schema) FullVertical() Vertical {
	return s.EmptyVertical().Invert()
}

// VerticalOf builds the vertical containing the given column indices.
func (s *Schema) VerticalOf(indices ...int) Vertical {
	bits := NewBitset(len(s.columns))
	for _, i := range indices {
		bits.Set(i)
	}
	return Vertical{schema: s, bits: bits}
}

// VerticalFromBitset wraps bits, which must have the schema's width.
func (s *Schema) VerticalFromBitset(bits Bitset) Vertical {
	if bits.Size() != len(s.columns) {
		panic(fmt.Sprintf("bitset of width %d does not fit schema %q with %d columns",
			bits.Size(), s.name, len(s.columns)))
	}
	return Vertical{schema: s, bits: bits}
}
