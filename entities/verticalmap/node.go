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

package verticalmap

import "github.com/weaviate/depminer/entities/lattice"

// node owns the child slots for the bits offset..dimension-1. The child
// reached through bit i has offset i+1, so every path visits bits in
// ascending order and spells exactly one key.
type node[V any] struct {
	offset   int
	children []*node[V]
	value    V
	hasValue bool
}

func (n *node[V]) child(i int) *node[V] {
	if n.children == nil {
		return nil
	}
	return n.children[i-n.offset]
}

func (n *node[V]) getOrCreateChild(i, dimension int) *node[V] {
	if n.children == nil {
		n.children = make([]*node[V], dimension-n.offset)
	}

	c := n.children[i-n.offset]
	if c == nil {
		c = &node[V]{offset: i + 1}
		n.children[i-n.offset] = c
	}
	return c
}

func (n *node[V]) isEmpty() bool {
	return !n.hasValue && n.isEmptyChildren()
}

func (n *node[V]) remove(key lattice.Bitset, from int) (V, bool) {
	var zero V

	next := key.NextSet(from)
	if next < 0 {
		if !n.hasValue {
			return zero, false
		}
		value := n.value
		n.value, n.hasValue = zero, false
		return value, true
	}

	c := n.child(next)
	if c == nil {
		return zero, false
	}

	value, removed := c.remove(key, next+1)
	if removed && c.isEmpty() {
		n.children[next-n.offset] = nil
		if n.isEmptyChildren() {
			n.children = nil
		}
	}
	return value, removed
}

func (n *node[V]) isEmptyChildren() bool {
	for _, c := range n.children {
		if c != nil {
			return false
		}
	}
	return true
}

// collectSubsets follows only the bits of key. It returns false once fn asked
// to stop.
func (n *node[V]) collectSubsets(key lattice.Bitset, from int, path *lattice.Bitset,
	fn func(lattice.Bitset, V) bool,
) bool {
	if n.hasValue && !fn(path.Clone(), n.value) {
		return false
	}
	if n.children == nil {
		return true
	}

	for i := key.NextSet(from); i >= 0; i = key.NextSet(i + 1) {
		c := n.child(i)
		if c == nil {
			continue
		}
		path.Set(i)
		cont := c.collectSubsets(key, i+1, path, fn)
		path.Unset(i)
		if !cont {
			return false
		}
	}
	return true
}

// collectSupersets must still visit every bit of key from "from" on. Bits
// below the next required one are free, so all those children are explored
// as well.
func (n *node[V]) collectSupersets(key lattice.Bitset, from int, path *lattice.Bitset,
	fn func(lattice.Bitset, V) bool,
) bool {
	next := key.NextSet(from)
	if next < 0 {
		return n.collectAll(path, fn)
	}
	if n.children == nil {
		return true
	}

	for i := n.offset; i < next; i++ {
		c := n.child(i)
		if c == nil {
			continue
		}
		path.Set(i)
		cont := c.collectSupersets(key, next, path, fn)
		path.Unset(i)
		if !cont {
			return false
		}
	}

	c := n.child(next)
	if c == nil {
		return true
	}
	path.Set(next)
	cont := c.collectSupersets(key, next+1, path, fn)
	path.Unset(next)
	return cont
}

func (n *node[V]) collectAll(path *lattice.Bitset, fn func(lattice.Bitset, V) bool) bool {
	if n.hasValue && !fn(path.Clone(), n.value) {
		return false
	}

	for j, c := range n.children {
		if c == nil {
			continue
		}
		i := n.offset + j
		path.Set(i)
		cont := c.collectAll(path, fn)
		path.Unset(i)
		if !cont {
			return false
		}
	}
	return true
}
