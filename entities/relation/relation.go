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

// Package relation holds a dictionary encoded, column oriented relation
// together with the single column partitions the discovery runs start from.
package relation

import (
	"github.com/pkg/errors"

	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/partition"
)

// ColumnData is the encoded content of one column.
type ColumnData struct {
	column    *lattice.Column
	valueIDs  []int
	partition *partition.Partition
}

func (c *ColumnData) Column() *lattice.Column {
	return c.column
}

// ValueIDs maps every row to the dictionary id of its value.
func (c *ColumnData) ValueIDs() []int {
	return c.valueIDs
}

func (c *ColumnData) Partition() *partition.Partition {
	return c.partition
}

func (c *ColumnData) ProbingTable() []int {
	return c.partition.ProbingTable()
}

type Relation struct {
	schema  *lattice.Schema
	columns []*ColumnData
	numRows int
}

// New builds a relation from already encoded columns. All columns must have
// the same number of rows.
func New(schema *lattice.Schema, valueIDs [][]int) (*Relation, error) {
	if len(valueIDs) != schema.NumColumns() {
		return nil, errors.Errorf("got %d columns for schema %q with %d columns",
			len(valueIDs), schema.Name(), schema.NumColumns())
	}

	r := &Relation{schema: schema, columns: make([]*ColumnData, len(valueIDs))}
	for i, ids := range valueIDs {
		if i == 0 {
			r.numRows = len(ids)
		} else if len(ids) != r.numRows {
			return nil, errors.Errorf("column %q has %d rows, expected %d",
				schema.Column(i).Name(), len(ids), r.numRows)
		}
		r.columns[i] = &ColumnData{
			column:    schema.Column(i),
			valueIDs:  ids,
			partition: partition.FromValues(ids),
		}
	}

	return r, nil
}

// FromRecords dictionary encodes string rows. Empty strings are nulls; with
// nullEqualsNull unset every null gets its own value id.
func FromRecords(name string, header []string, rows [][]string, nullEqualsNull bool) (*Relation, error) {
	schema, err := lattice.NewSchema(name, header...)
	if err != nil {
		return nil, err
	}

	valueIDs := make([][]int, len(header))
	dictionaries := make([]map[string]int, len(header))
	for i := range header {
		valueIDs[i] = make([]int, len(rows))
		dictionaries[i] = make(map[string]int)
	}

	for r, row := range rows {
		if len(row) != len(header) {
			return nil, errors.Errorf("row %d has %d fields, expected %d", r, len(row), len(header))
		}
		for i, value := range row {
			dict := dictionaries[i]
			if value == "" && !nullEqualsNull {
				// ids below zero never collide with dictionary ids
				valueIDs[i][r] = -r - 1
				continue
			}
			id, ok := dict[value]
			if !ok {
				id = len(dict)
				dict[value] = id
			}
			valueIDs[i][r] = id
		}
	}

	return New(schema, valueIDs)
}

func (r *Relation) Schema() *lattice.Schema {
	return r.schema
}

func (r *Relation) NumRows() int {
	return r.numRows
}

func (r *Relation) NumColumns() int {
	return len(r.columns)
}

func (r *Relation) ColumnData(i int) *ColumnData {
	return r.columns[i]
}

func (r *Relation) Columns() []*ColumnData {
	return r.columns
}

// NumTuplePairs is the number of unordered row pairs.
func (r *Relation) NumTuplePairs() uint64 {
	return partition.NumPairs(r.numRows)
}
