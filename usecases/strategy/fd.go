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

	"github.com/pkg/errors"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/usecases/config"
	"github.com/weaviate/depminer/usecases/profiling"
)

// FDStrategy evaluates the g1 error of lhs -> rhs for a fixed right hand side.
type FDStrategy struct {
	thresholds
	rhs *lattice.Column
}

func NewFDStrategy(ctx *profiling.Context, rhs *lattice.Column, maxError, deviation float64) *FDStrategy {
	return &FDStrategy{
		thresholds: newThresholds(ctx, maxError, deviation),
		rhs:        rhs,
	}
}

// EnsureInitialized seeds the empty left hand side with its exact error.
func (s *FDStrategy) EnsureInitialized(pads LaunchPadAdder) error {
	empty := s.ctx.Schema().EmptyVertical()
	err, calcErr := s.CalculateError(empty)
	if calcErr != nil {
		return errors.Wrapf(calcErr, "initialize %s", s)
	}

	pads.AddLaunchPad(dependency.ExactCandidate(empty, err))
	return nil
}

func (s *FDStrategy) CalculateError(lhs lattice.Vertical) (float64, error) {
	defer s.ctx.Metrics().ErrorCalculated(config.ErrorMeasureG1Prime)

	cache := s.ctx.Partitions()
	if lhs.IsEmpty() {
		rhsPartition, ok := cache.Get(s.rhs.Vertical())
		if !ok {
			return 0, errors.Wrapf(ErrMissingPartition, "column %s", s.rhs)
		}
		return s.g1(rhsPartition.NIP()), nil
	}

	lhsPartition := cache.GetOrCreateFor(lhs)
	if joint, ok := cache.Get(lhs.With(s.rhs.Index())); ok {
		return s.g1(lhsPartition.NEP() - joint.NEP()), nil
	}

	rhsTable := s.ctx.Relation().ColumnData(s.rhs.Index()).ProbingTable()
	return s.g1(violations(lhsPartition, rhsTable)), nil
}

// CreateCandidate estimates the error from the agree set samples, falling
// back to the uninformed interval without samples.
func (s *FDStrategy) CreateCandidate(lhs lattice.Vertical) dependency.Candidate {
	sample, ok := s.ctx.AgreeSetSample(lhs)
	if !ok {
		return dependency.NewCandidate(lhs, dependency.Uninformed(), false)
	}

	est := sample.EstimateMixed(lhs, s.rhs.Vertical(), s.ctx.Config().EstimateConfidence)
	return dependency.NewCandidate(lhs, est, false)
}

func (s *FDStrategy) Format(lhs lattice.Vertical) string {
	return fmt.Sprintf("%s -> %s", lhs, s.rhs)
}

func (s *FDStrategy) IsIrrelevantColumn(column int) bool {
	return column == s.rhs.Index()
}

func (s *FDStrategy) IrrelevantColumns() lattice.Vertical {
	return s.rhs.Vertical()
}

func (s *FDStrategy) RegisterDependency(lhs lattice.Vertical, err float64, sink dependency.Sink) error {
	if sink == nil {
		return nil
	}

	sink.RegisterFD(dependency.FD{
		LHS:   lhs,
		RHS:   s.rhs,
		Error: err,
		Score: s.score(lhs),
	})
	s.ctx.Metrics().DependencyDiscovered("fd")
	return nil
}

func (s *FDStrategy) ShouldResample(v lattice.Vertical, boost float64) bool {
	return s.shouldResample(v, boost)
}

func (s *FDStrategy) Clone() Strategy {
	return NewFDStrategy(s.ctx, s.rhs, s.maxError(), s.deviation())
}

func (s *FDStrategy) String() string {
	return fmt.Sprintf("FD[RHS=%s, g1 in (%v, %v)]", s.rhs, s.maxDependencyError, s.minNonDependencyError)
}
