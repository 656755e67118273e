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

package strategy

import (
	"fmt"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/usecases/config"
	"github.com/weaviate/depminer/usecases/profiling"
)

// KeyStrategy evaluates the g1 error of a (partial) unique column
// combination: the share of row pairs that agree on it.
type KeyStrategy struct {
	thresholds
}

func NewKeyStrategy(ctx *profiling.Context, maxError, deviation float64) *KeyStrategy {
	return &KeyStrategy{thresholds: newThresholds(ctx, maxError, deviation)}
}

// EnsureInitialized seeds every single column.
func (s *KeyStrategy) EnsureInitialized(pads LaunchPadAdder) error {
	for _, col := range s.ctx.Schema().Columns() {
		pads.AddLaunchPad(s.CreateCandidate(col.Vertical()))
	}
	return nil
}

func (s *KeyStrategy) CalculateError(v lattice.Vertical) (float64, error) {
	s.ctx.Metrics().ErrorCalculated(config.ErrorMeasureG1Prime)

	return s.g1(s.ctx.Partitions().GetOrCreateFor(v).NEP()), nil
}

func (s *KeyStrategy) CreateCandidate(v lattice.Vertical) dependency.Candidate {
	sample, ok := s.ctx.AgreeSetSample(v)
	if !ok {
		return dependency.NewCandidate(v, dependency.Uninformed(), false)
	}

	return dependency.NewCandidate(v, sample.EstimateAgreements(v, s.ctx.Config().EstimateConfidence), false)
}

func (s *KeyStrategy) Format(v lattice.Vertical) string {
	return fmt.Sprintf("key %s", v)
}

func (s *KeyStrategy) IsIrrelevantColumn(int) bool {
	return false
}

func (s *KeyStrategy) IrrelevantColumns() lattice.Vertical {
	return s.ctx.Schema().EmptyVertical()
}

func (s *KeyStrategy) RegisterDependency(v lattice.Vertical, err float64, sink dependency.Sink) error {
	if sink == nil {
		return nil
	}

	sink.RegisterUCC(dependency.UCC{
		Vertical: v,
		Error:    err,
		Score:    s.score(v),
	})
	s.ctx.Metrics().DependencyDiscovered("ucc")
	return nil
}

func (s *KeyStrategy) ShouldResample(v lattice.Vertical, boost float64) bool {
	return s.shouldResample(v, boost)
}

func (s *KeyStrategy) Clone() Strategy {
	return NewKeyStrategy(s.ctx, s.maxError(), s.deviation())
}

func (s *KeyStrategy) String() string {
	return fmt.Sprintf("key[g1 in (%v, %v)]", s.maxDependencyError, s.minNonDependencyError)
}
