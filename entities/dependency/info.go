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

import "math"

// Info is the verdict stored for a visited vertical.
type Info struct {
	IsDependency bool
	IsExtremal   bool
	Error        float64
}

func ForMinimalDependency(err float64) Info {
	return Info{IsDependency: true, IsExtremal: true, Error: err}
}

func ForMaximalNonDependency() Info {
	return Info{IsDependency: false, IsExtremal: true, Error: math.NaN()}
}

func ForNonDependency() Info {
	return Info{IsDependency: false, IsExtremal: false, Error: math.NaN()}
}

// IsPruningSubsets reports whether all subsets of the vertical are known to be
// non-dependencies.
func (i Info) IsPruningSubsets() bool {
	return !i.IsDependency || i.IsExtremal
}
