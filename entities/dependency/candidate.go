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

package dependency

import (
	"fmt"

	"github.com/weaviate/depminer/entities/lattice"
)

// Candidate is a vertical whose dependency error is known or estimated.
type Candidate struct {
	Vertical lattice.Vertical
	Error    ConfidenceInterval
	exact    bool
}

func NewCandidate(v lattice.Vertical, err ConfidenceInterval, exact bool) Candidate {
	return Candidate{Vertical: v, Error: err, exact: exact}
}

// ExactCandidate wraps a computed error.
func ExactCandidate(v lattice.Vertical, err float64) Candidate {
	return Candidate{Vertical: v, Error: Point(err), exact: true}
}

// IsExact reports whether the error is known without further computation.
func (c Candidate) IsExact() bool {
	return c.exact || c.Error.IsPoint()
}

func (c Candidate) Arity() int {
	return c.Vertical.Arity()
}

func (c Candidate) String() string {
	marker := "~"
	if c.IsExact() {
		marker = "="
	}
	return fmt.Sprintf("%s%s%s", c.Vertical, marker, c.Error)
}

// Less is a strict ordering of candidates.
type Less func(a, b Candidate) bool

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	return compareFloat(float64(a), float64(b))
}

// ByArityThenError orders by arity, then minimum error, then mean error, then
// lexicographically.
func ByArityThenError(a, b Candidate) bool {
	if c := compareInt(a.Arity(), b.Arity()); c != 0 {
		return c < 0
	}
	if c := compareFloat(a.Error.Min, b.Error.Min); c != 0 {
		return c < 0
	}
	if c := compareFloat(a.Error.Mean, b.Error.Mean); c != 0 {
		return c < 0
	}
	return a.Vertical.Compare(b.Vertical) < 0
}

// ByErrorThenArity orders by minimum error, then mean error, then arity, then
// lexicographically.
func ByErrorThenArity(a, b Candidate) bool {
	if c := compareFloat(a.Error.Min, b.Error.Min); c != 0 {
		return c < 0
	}
	if c := compareFloat(a.Error.Mean, b.Error.Mean); c != 0 {
		return c < 0
	}
	if c := compareInt(a.Arity(), b.Arity()); c != 0 {
		return c < 0
	}
	return a.Vertical.Compare(b.Vertical) < 0
}

// ByMinError orders parents so that the likeliest dependencies come first.
func ByMinError(a, b Candidate) bool {
	if c := compareFloat(a.Error.Min, b.Error.Min); c != 0 {
		return c < 0
	}
	return compareFloat(a.Error.Mean, b.Error.Mean) < 0
}

// ByArity orders by arity, then mean error.
func ByArity(a, b Candidate) bool {
	if c := compareInt(a.Arity(), b.Arity()); c != 0 {
		return c < 0
	}
	return compareFloat(a.Error.Mean, b.Error.Mean) < 0
}
