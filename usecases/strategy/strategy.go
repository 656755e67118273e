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

// Package strategy defines how a search space evaluates verticals: the error
// measure, the estimates and where discovered dependencies go.
package strategy

import (
	"github.com/pkg/errors"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/partition"
	"github.com/weaviate/depminer/usecases/profiling"
)

var ErrMissingPartition = errors.New("missing partition")

// LaunchPadAdder receives the launch pads a strategy seeds.
type LaunchPadAdder interface {
	AddLaunchPad(c dependency.Candidate)
}

// Strategy is implemented by the FD and the key strategy.
type Strategy interface {
	// EnsureInitialized seeds the initial launch pads.
	EnsureInitialized(pads LaunchPadAdder) error
	CalculateError(v lattice.Vertical) (float64, error)
	CreateCandidate(v lattice.Vertical) dependency.Candidate
	Format(v lattice.Vertical) string
	IsIrrelevantColumn(column int) bool
	IrrelevantColumns() lattice.Vertical
	RegisterDependency(v lattice.Vertical, err float64, sink dependency.Sink) error
	// ShouldResample reports whether a focused sample on v would improve
	// the estimates noticeably.
	ShouldResample(v lattice.Vertical, boost float64) bool
	Clone() Strategy
	MaxDependencyError() float64
	MinNonDependencyError() float64
	String() string
}

// thresholds holds what every strategy shares.
type thresholds struct {
	ctx                   *profiling.Context
	maxDependencyError    float64
	minNonDependencyError float64
}

func newThresholds(ctx *profiling.Context, maxError, deviation float64) thresholds {
	return thresholds{
		ctx:                   ctx,
		maxDependencyError:    maxError - deviation,
		minNonDependencyError: maxError + deviation,
	}
}

func (t thresholds) MaxDependencyError() float64 {
	return t.maxDependencyError
}

func (t thresholds) MinNonDependencyError() float64 {
	return t.minNonDependencyError
}

// maxError and deviation recover the constructor arguments for clones.
func (t thresholds) maxError() float64 {
	return (t.maxDependencyError + t.minNonDependencyError) / 2
}

func (t thresholds) deviation() float64 {
	return (t.minNonDependencyError - t.maxDependencyError) / 2
}

func (t thresholds) g1(violations uint64) float64 {
	pairs := t.ctx.Relation().NumTuplePairs()
	if pairs == 0 {
		return 0
	}
	return float64(violations) / float64(pairs)
}

// score is the share of row pairs v tells apart.
func (t thresholds) score(v lattice.Vertical) float64 {
	return 1 - t.g1(t.ctx.Partitions().GetOrCreateFor(v).NEP())
}

func (t thresholds) shouldResample(v lattice.Vertical, boost float64) bool {
	sampleSize := t.ctx.Config().SampleSize
	if sampleSize <= 0 || v.Arity() < 1 {
		return false
	}

	current, ok := t.ctx.AgreeSetSample(v)
	if !ok || current.IsExact() {
		return false
	}

	var nep float64
	if p, ok := t.ctx.Partitions().Get(v); ok {
		nep = float64(p.NEP())
	} else {
		confidence := t.ctx.Config().EstimateConfidence
		nep = current.EstimateAgreements(v, confidence).Mean * float64(t.ctx.Relation().NumTuplePairs())
	}

	target := float64(sampleSize) * boost
	if nep <= target {
		return true
	}
	return target/nep >= 2*current.SamplingRatio()
}

// violations counts the pairs of every cluster of lhs that disagree
// according to the probing table of the right hand side.
func violations(lhs *partition.Partition, rhsTable []int) uint64 {
	var total uint64
	counts := make(map[int]uint64)
	for _, cluster := range lhs.Clusters() {
		n := uint64(len(cluster))
		agreeing := uint64(0)
		for _, row := range cluster {
			if id := rhsTable[row]; id != partition.Singleton {
				counts[id]++
			}
		}
		for _, c := range counts {
			agreeing += c * (c - 1) / 2
		}
		clear(counts)
		total += n*(n-1)/2 - agreeing
	}
	return total
}
