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

package search

import "github.com/weaviate/depminer/entities/dependency"

// candidateHeap is a container/heap of candidates; the candidate that is
// least according to less is on top.
type candidateHeap struct {
	items []dependency.Candidate
	less  dependency.Less
}

func newCandidateHeap(less dependency.Less) *candidateHeap {
	return &candidateHeap{less: less}
}

func (h *candidateHeap) Len() int           { return len(h.items) }
func (h *candidateHeap) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h *candidateHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *candidateHeap) Push(x any) {
	h.items = append(h.items, x.(dependency.Candidate))
}

func (h *candidateHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

func (h *candidateHeap) Top() dependency.Candidate {
	return h.items[0]
}

// byDescendingArity puts the largest peaks first.
func byDescendingArity(a, b dependency.Candidate) bool {
	return dependency.ByArity(b, a)
}
