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

// FD is a discovered minimal functional dependency LHS -> RHS.
type FD struct {
	LHS   lattice.Vertical
	RHS   *lattice.Column
	Error float64
	Score float64
}

func (fd FD) String() string {
	return fmt.Sprintf("%s -> %s (error %.6f)", fd.LHS, fd.RHS, fd.Error)
}

// UCC is a discovered minimal unique column combination.
type UCC struct {
	Vertical lattice.Vertical
	Error    float64
	Score    float64
}

func (u UCC) String() string {
	return fmt.Sprintf("%s (error %.6f)", u.Vertical, u.Error)
}

// Sink receives the dependencies of a discovery run. Implementations must be
// safe for concurrent use, every search space registers from its own worker.
type Sink interface {
	RegisterFD(fd FD)
	RegisterUCC(ucc UCC)
}
