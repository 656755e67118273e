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

// Package partition holds stripped partitions (position list indexes): the
// clusters of row ids that agree on every column of a vertical, without the
// singleton clusters.
package partition

import (
	"encoding/binary"
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Singleton is the probing table id of rows that are alone in their cluster.
const Singleton = 0

// Partition is immutable once built and therefore safe to share between
// goroutines. Only the usage counter changes over its lifetime.
type Partition struct {
	clusters [][]int
	numRows  int
	size     int
	nep      uint64
	entropy  float64

	probingOnce  sync.Once
	probingTable []int

	freq atomic.Uint64
}

func newPartition(clusters [][]int, numRows int) *Partition {
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})

	p := &Partition{clusters: clusters, numRows: numRows}
	var weighted float64
	for _, c := range clusters {
		n := len(c)
		p.size += n
		p.nep += uint64(n) * uint64(n-1) / 2
		weighted += float64(n) * math.Log(float64(n))
	}
	if numRows > 0 {
		p.entropy = math.Log(float64(numRows)) - weighted/float64(numRows)
	}
	return p
}

// FromValues builds the partition of a single column given the value id of
// every row. Rows share a cluster iff their value ids are equal.
func FromValues(valueIDs []int) *Partition {
	index := make(map[int][]int)
	for row, id := range valueIDs {
		index[id] = append(index[id], row)
	}

	clusters := make([][]int, 0, len(index))
	for _, rows := range index {
		if len(rows) > 1 {
			clusters = append(clusters, rows)
		}
	}
	return newPartition(clusters, len(valueIDs))
}

// Full is the partition of the empty vertical: all rows agree.
func Full(numRows int) *Partition {
	if numRows < 2 {
		return newPartition(nil, numRows)
	}

	rows := make([]int, numRows)
	for i := range rows {
		rows[i] = i
	}
	return newPartition([][]int{rows}, numRows)
}

func (p *Partition) Clusters() [][]int {
	return p.clusters
}

func (p *Partition) NumClusters() int {
	return len(p.clusters)
}

func (p *Partition) NumRows() int {
	return p.numRows
}

// Size is the number of rows in non-singleton clusters.
func (p *Partition) Size() int {
	return p.size
}

// NEP is the number of row pairs that agree.
func (p *Partition) NEP() uint64 {
	return p.nep
}

// NIP is the number of row pairs that disagree.
func (p *Partition) NIP() uint64 {
	return NumPairs(p.numRows) - p.nep
}

func (p *Partition) Entropy() float64 {
	return p.entropy
}

// IsUnique reports whether no two rows agree.
func (p *Partition) IsUnique() bool {
	return len(p.clusters) == 0
}

func (p *Partition) Freq() uint64 {
	return p.freq.Load()
}

func (p *Partition) IncFreq() {
	p.freq.Add(1)
}

// ProbingTable maps every row to its cluster id starting at 1, or to
// Singleton.
func (p *Partition) ProbingTable() []int {
	p.probingOnce.Do(func() {
		table := make([]int, p.numRows)
		for id, c := range p.clusters {
			for _, row := range c {
				table[row] = id + 1
			}
		}
		p.probingTable = table
	})
	return p.probingTable
}

// Intersect computes the partition of the union of both verticals. The
// smaller partition is probed against the other's probing table.
func (p *Partition) Intersect(other *Partition) *Partition {
	if p.size > other.size {
		return other.Probe(p.ProbingTable())
	}
	return p.Probe(other.ProbingTable())
}

// Probe refines every cluster of p by the cluster ids of table.
func (p *Partition) Probe(table []int) *Partition {
	var clusters [][]int
	partial := make(map[int][]int)
	for _, c := range p.clusters {
		for _, row := range c {
			id := table[row]
			if id == Singleton {
				continue
			}
			partial[id] = append(partial[id], row)
		}
		clusters = appendRefined(clusters, partial)
		clear(partial)
	}
	return newPartition(clusters, p.numRows)
}

// ProbeAll refines p by several probing tables at once. A row is dropped as
// soon as one table marks it as singleton.
func (p *Partition) ProbeAll(tables [][]int) *Partition {
	var clusters [][]int
	partial := make(map[string][]int)
	key := make([]byte, 0, binary.MaxVarintLen64*len(tables))
	for _, c := range p.clusters {
	rows:
		for _, row := range c {
			key = key[:0]
			for _, table := range tables {
				id := table[row]
				if id == Singleton {
					continue rows
				}
				key = binary.AppendUvarint(key, uint64(id))
			}
			partial[string(key)] = append(partial[string(key)], row)
		}
		clusters = appendRefined(clusters, partial)
		clear(partial)
	}
	return newPartition(clusters, p.numRows)
}

// Equal compares the cluster structure of two partitions.
func (p *Partition) Equal(other *Partition) bool {
	if p.numRows != other.numRows || len(p.clusters) != len(other.clusters) {
		return false
	}
	for i, c := range p.clusters {
		o := other.clusters[i]
		if len(c) != len(o) {
			return false
		}
		for j := range c {
			if c[j] != o[j] {
				return false
			}
		}
	}
	return true
}

func appendRefined[K comparable](clusters [][]int, partial map[K][]int) [][]int {
	for _, rows := range partial {
		if len(rows) > 1 {
			clusters = append(clusters, rows)
		}
	}
	return clusters
}

// NumPairs is the number of unordered pairs among n rows.
func NumPairs(n int) uint64 {
	if n < 2 {
		return 0
	}
	return uint64(n) * uint64(n-1) / 2
}
