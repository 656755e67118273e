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

import "fmt"

// ConfidenceInterval bounds an estimated error. A point interval carries an
// exact value.
type ConfidenceInterval struct {
	Min  float64
	Mean float64
	Max  float64
}

func NewConfidenceInterval(min, mean, max float64) ConfidenceInterval {
	if min > mean || mean > max {
		panic(fmt.Sprintf("invalid confidence interval [%v, %v, %v]", min, mean, max))
	}
	return ConfidenceInterval{Min: min, Mean: mean, Max: max}
}

// Point is the interval of an exactly known value.
func Point(value float64) ConfidenceInterval {
	return ConfidenceInterval{Min: value, Mean: value, Max: value}
}

// Uninformed is used when no estimate is available at all.
func Uninformed() ConfidenceInterval {
	return ConfidenceInterval{Min: 0, Mean: .5, Max: 1}
}

func (ci ConfidenceInterval) IsPoint() bool {
	return ci.Min == ci.Max
}

func (ci ConfidenceInterval) String() string {
	if ci.IsPoint() {
		return fmt.Sprintf("%.6f", ci.Mean)
	}
	return fmt.Sprintf("[%.6f, %.6f, %.6f]", ci.Min, ci.Mean, ci.Max)
}
