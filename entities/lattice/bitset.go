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
	"encoding/binary"
	"math/bits"
)

// Bitset is a fixed width set of column indices. Set and Unset mutate in
// place, the combining operations return new bitsets.
type Bitset struct {
	size     int
	bits     []uint64
	setCount int
}

func NewBitset(size int) Bitset {
	return Bitset{
		size: size,
		bits: make([]uint64, (size+63)/64),
	}
}

func (bset Bitset) Size() int {
	return bset.size
}

func (bset *Bitset) Set(i int) *Bitset {
	if bset.IsSet(i) {
		return bset
	}

	bset.bits[i/64] |= 1 << (i % 64)
	bset.setCount++

	return bset
}

func (bset *Bitset) Unset(i int) *Bitset {
	if !bset.IsSet(i) {
		return bset
	}

	bset.bits[i/64] &= ^(1 << (i % 64))
	bset.setCount--

	return bset
}

func (bset Bitset) IsSet(i int) bool {
	if i < 0 || bset.size <= i {
		panic("index out of range")
	}

	return bset.bits[i/64]&(1<<(i%64)) != 0
}

func (bset Bitset) SetCount() int {
	return bset.setCount
}

func (bset Bitset) IsEmpty() bool {
	return bset.setCount == 0
}

// NextSet returns the smallest set index >= from, or -1.
func (bset Bitset) NextSet(from int) int {
	if from < 0 {
		from = 0
	}
	if from >= bset.size {
		return -1
	}

	w := from / 64
	word := bset.bits[w] >> (from % 64)
	if word != 0 {
		return from + bits.TrailingZeros64(word)
	}

	for w++; w < len(bset.bits); w++ {
		if bset.bits[w] != 0 {
			return w*64 + bits.TrailingZeros64(bset.bits[w])
		}
	}

	return -1
}

func (bset Bitset) Or(other Bitset) Bitset {
	return bset.combine(other, func(a, b uint64) uint64 { return a | b })
}

func (bset Bitset) And(other Bitset) Bitset {
	return bset.combine(other, func(a, b uint64) uint64 { return a & b })
}

func (bset Bitset) AndNot(other Bitset) Bitset {
	return bset.combine(other, func(a, b uint64) uint64 { return a &^ b })
}

// Not flips every bit within the bitset's size.
func (bset Bitset) Not() Bitset {
	res := NewBitset(bset.size)
	for i, w := range bset.bits {
		res.bits[i] = ^w
	}
	if rest := bset.size % 64; rest != 0 {
		res.bits[len(res.bits)-1] &= (1 << rest) - 1
	}
	res.recount()

	return res
}

// ContainsAll reports whether every bit of other is also set in bset.
func (bset Bitset) ContainsAll(other Bitset) bool {
	bset.mustMatch(other)
	for i, w := range other.bits {
		if w&^bset.bits[i] != 0 {
			return false
		}
	}
	return true
}

func (bset Bitset) Intersects(other Bitset) bool {
	bset.mustMatch(other)
	for i, w := range other.bits {
		if w&bset.bits[i] != 0 {
			return true
		}
	}
	return false
}

func (bset Bitset) Equal(other Bitset) bool {
	if bset.size != other.size || bset.setCount != other.setCount {
		return false
	}
	for i, w := range bset.bits {
		if other.bits[i] != w {
			return false
		}
	}
	return true
}

// Key serializes the bitset into a string usable as a map key.
func (bset Bitset) Key() string {
	return string(bset.Marshal())
}

func (bset Bitset) Marshal() []byte {
	b := make([]byte, 4+8*len(bset.bits))

	binary.BigEndian.PutUint32(b, uint32(bset.size))

	off := 4
	for _, n := range bset.bits {
		binary.BigEndian.PutUint64(b[off:], n)
		off += 8
	}

	return b
}

func (bset Bitset) Clone() Bitset {
	clone := Bitset{
		size:     bset.size,
		bits:     make([]uint64, len(bset.bits)),
		setCount: bset.setCount,
	}

	copy(clone.bits, bset.bits)

	return clone
}

func (bset Bitset) combine(other Bitset, op func(a, b uint64) uint64) Bitset {
	bset.mustMatch(other)

	res := NewBitset(bset.size)
	for i := range bset.bits {
		res.bits[i] = op(bset.bits[i], other.bits[i])
	}
	res.recount()

	return res
}

func (bset *Bitset) recount() {
	bset.setCount = 0
	for _, w := range bset.bits {
		bset.setCount += bits.OnesCount64(w)
	}
}

func (bset Bitset) mustMatch(other Bitset) {
	if bset.size != other.size {
		panic("bitset size mismatch")
	}
}
