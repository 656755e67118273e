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

// Package verticalmap provides a set-trie keyed by verticals. Besides exact
// lookups it answers subset and superset queries without scanning all
// entries: a subset query only follows the bits of the query, a superset query
// additionally follows every unconstrained bit below the next required one.
package verticalmap

import (
	"fmt"
	"sort"

	"github.com/weaviate/depminer/entities/lattice"
)

type Entry[V any] struct {
	Key   lattice.Vertical
	Value V
}

// Map is not safe for concurrent use.
type Map[V any] struct {
	schema *lattice.Schema
	root   *node[V]
	size   int
}

func New[V any](schema *lattice.Schema) *Map[V] {
	return &Map[V]{
		schema: schema,
		root:   &node[V]{offset: 0},
	}
}

func (m *Map[V]) Schema() *lattice.Schema {
	return m.schema
}

func (m *Map[V]) Size() int {
	return m.size
}

func (m *Map[V]) IsEmpty() bool {
	return m.size == 0
}

// Put associates value with key and returns the previously stored value.
func (m *Map[V]) Put(key lattice.Vertical, value V) (V, bool) {
	bits := m.bitsOf(key)

	n := m.root
	for i := bits.NextSet(0); i >= 0; i = bits.NextSet(i + 1) {
		n = n.getOrCreateChild(i, m.dimension())
	}

	old, had := n.value, n.hasValue
	n.value, n.hasValue = value, true
	if !had {
		m.size++
	}

	return old, had
}

func (m *Map[V]) Get(key lattice.Vertical) (V, bool) {
	bits := m.bitsOf(key)

	n := m.root
	for i := bits.NextSet(0); i >= 0; i = bits.NextSet(i + 1) {
		if n = n.child(i); n == nil {
			var zero V
			return zero, false
		}
	}

	return n.value, n.hasValue
}

func (m *Map[V]) ContainsKey(key lattice.Vertical) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove deletes key and prunes every subtrie left without values.
func (m *Map[V]) Remove(key lattice.Vertical) (V, bool) {
	bits := m.bitsOf(key)

	value, removed := m.root.remove(bits, 0)
	if removed {
		m.size--
	}
	return value, removed
}

// SubsetEntries returns all entries whose key is a subset of key, key itself
// included.
func (m *Map[V]) SubsetEntries(key lattice.Vertical) []Entry[V] {
	var entries []Entry[V]
	m.collectSubsets(key, func(e Entry[V]) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

func (m *Map[V]) SubsetKeys(key lattice.Vertical) []lattice.Vertical {
	var keys []lattice.Vertical
	m.collectSubsets(key, func(e Entry[V]) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

// AnySubsetEntry returns the first subset entry accepted by pred. A nil pred
// accepts everything.
func (m *Map[V]) AnySubsetEntry(key lattice.Vertical, pred func(lattice.Vertical, V) bool) (Entry[V], bool) {
	var (
		found Entry[V]
		ok    bool
	)
	m.collectSubsets(key, func(e Entry[V]) bool {
		if pred == nil || pred(e.Key, e.Value) {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// SupersetEntries returns all entries whose key is a superset of key, key
// itself included.
func (m *Map[V]) SupersetEntries(key lattice.Vertical) []Entry[V] {
	var entries []Entry[V]
	m.collectSupersets(key, func(e Entry[V]) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// RestrictedSupersetEntries returns the superset entries of key that do not
// intersect exclusion.
func (m *Map[V]) RestrictedSupersetEntries(key, exclusion lattice.Vertical) []Entry[V] {
	if key.Intersects(exclusion) {
		panic(fmt.Sprintf("key %s and exclusion %s overlap", key, exclusion))
	}

	var entries []Entry[V]
	m.collectSupersets(key, func(e Entry[V]) bool {
		if !e.Key.Intersects(exclusion) {
			entries = append(entries, e)
		}
		return true
	})
	return entries
}

// AnySupersetEntry returns the first superset entry accepted by pred. A nil
// pred accepts everything.
func (m *Map[V]) AnySupersetEntry(key lattice.Vertical, pred func(lattice.Vertical, V) bool) (Entry[V], bool) {
	var (
		found Entry[V]
		ok    bool
	)
	m.collectSupersets(key, func(e Entry[V]) bool {
		if pred == nil || pred(e.Key, e.Value) {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// RemoveSupersetEntries deletes every superset of key and reports whether
// anything was removed.
func (m *Map[V]) RemoveSupersetEntries(key lattice.Vertical) bool {
	entries := m.SupersetEntries(key)
	for _, e := range entries {
		m.Remove(e.Key)
	}
	return len(entries) > 0
}

// RemoveSubsetEntries deletes every subset of key and reports whether anything
// was removed.
func (m *Map[V]) RemoveSubsetEntries(key lattice.Vertical) bool {
	entries := m.SubsetEntries(key)
	for _, e := range entries {
		m.Remove(e.Key)
	}
	return len(entries) > 0
}

// Range calls fn for every entry until fn returns false.
func (m *Map[V]) Range(fn func(key lattice.Vertical, value V) bool) {
	path := lattice.NewBitset(m.dimension())
	m.root.collectAll(&path, func(bits lattice.Bitset, value V) bool {
		return fn(m.schema.VerticalFromBitset(bits), value)
	})
}

func (m *Map[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, m.size)
	m.Range(func(key lattice.Vertical, value V) bool {
		entries = append(entries, Entry[V]{Key: key, Value: value})
		return true
	})
	return entries
}

func (m *Map[V]) Keys() []lattice.Vertical {
	keys := make([]lattice.Vertical, 0, m.size)
	m.Range(func(key lattice.Vertical, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Shrink removes entries accepted by canRemove in the order given by less
// until at most factor*Size() entries are left. It returns the number of
// removed entries.
func (m *Map[V]) Shrink(factor float64, less func(a, b Entry[V]) bool,
	canRemove func(Entry[V]) bool,
) int {
	target := int(float64(m.size) * factor)

	var candidates []Entry[V]
	m.Range(func(key lattice.Vertical, value V) bool {
		e := Entry[V]{Key: key, Value: value}
		if canRemove == nil || canRemove(e) {
			candidates = append(candidates, e)
		}
		return true
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j])
	})

	removed := 0
	for _, e := range candidates {
		if m.size <= target {
			break
		}
		if _, ok := m.Remove(e.Key); ok {
			removed++
		}
	}
	return removed
}

func (m *Map[V]) collectSubsets(key lattice.Vertical, fn func(Entry[V]) bool) {
	bits := m.bitsOf(key)
	path := lattice.NewBitset(m.dimension())
	m.root.collectSubsets(bits, 0, &path, func(b lattice.Bitset, v V) bool {
		return fn(Entry[V]{Key: m.schema.VerticalFromBitset(b), Value: v})
	})
}

func (m *Map[V]) collectSupersets(key lattice.Vertical, fn func(Entry[V]) bool) {
	bits := m.bitsOf(key)
	path := lattice.NewBitset(m.dimension())
	m.root.collectSupersets(bits, 0, &path, func(b lattice.Bitset, v V) bool {
		return fn(Entry[V]{Key: m.schema.VerticalFromBitset(b), Value: v})
	})
}

func (m *Map[V]) dimension() int {
	return m.schema.NumColumns()
}

func (m *Map[V]) bitsOf(key lattice.Vertical) lattice.Bitset {
	bits := key.Bits()
	if bits.Size() != m.dimension() {
		panic(fmt.Sprintf("vertical of width %d used with a map over %d columns",
			bits.Size(), m.dimension()))
	}
	return bits
}
