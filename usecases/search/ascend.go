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

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
)

// ascend climbs from the launch pad towards a dependency, one column at a
// time, and trickles down from the first dependency it reaches. It reports
// whether a dependency was found.
func (s *SearchSpace) ascend(pad dependency.Candidate) (bool, error) {
	start := time.Now()
	defer s.metrics.ObservePhase("ascend", start)

	cfg := s.ctx.Config()
	maxDep := s.strategy.MaxDependencyError()

	if s.strategy.ShouldResample(pad.Vertical, s.sampleBoost) {
		s.ctx.CreateFocusedSample(pad.Vertical, s.sampleBoost)
		if !pad.IsExact() {
			pad = s.strategy.CreateCandidate(pad.Vertical)
		}
	}

	numRelevant := s.ctx.Schema().NumColumns() - s.strategy.IrrelevantColumns().Arity()
	maxLHS := s.maxLHS()

	traversal := pad
	var (
		peakErr  float64
		hasError bool
	)
	for {
		hasError = false
		switch {
		case traversal.IsExact():
			peakErr, hasError = traversal.Error.Mean, true
		case traversal.Error.Min > maxDep:
			// the estimate already rules this one out
		default:
			if cfg.EstimateOnly {
				peakErr = traversal.Error.Mean
			} else {
				var err error
				if peakErr, err = s.calculateError(traversal.Vertical); err != nil {
					return false, err
				}
			}
			hasError = true
		}

		if hasError {
			isDep := peakErr <= maxDep
			s.local.Put(traversal.Vertical, dependency.Info{IsDependency: isDep, Error: peakErr})
			if isDep {
				break
			}
			if !traversal.IsExact() {
				s.resampleIfNeeded(traversal.Vertical)
			}
		}

		if traversal.Arity() >= numRelevant || traversal.Arity() >= maxLHS {
			break
		}

		next, ok := s.nextCandidate(traversal.Vertical)
		if !ok {
			break
		}
		traversal = next
	}

	if !hasError {
		var err error
		if peakErr, err = s.calculateError(traversal.Vertical); err != nil {
			return false, err
		}
		s.local.Put(traversal.Vertical, dependency.Info{IsDependency: peakErr <= maxDep, Error: peakErr})
	}

	peak := traversal.Vertical
	if peakErr <= maxDep {
		s.logger.WithFields(logrus.Fields{
			"launch_pad": pad.Vertical,
			"peak":       peak,
			"error":      peakErr,
		}).Trace("ascended to dependency")

		if err := s.trickleDown(peak, peakErr); err != nil {
			return false, err
		}
		if s.recursionDepth == 0 {
			s.global.Put(peak, dependency.ForMinimalDependency(peakErr))
		}
		return true, nil
	}

	if s.recursionDepth == 0 {
		s.global.Put(peak, dependency.ForMaximalNonDependency())
	} else {
		s.local.Put(peak, dependency.ForNonDependency())
	}
	return false, nil
}

// nextCandidate picks the extension of v to continue the ascent with.
func (s *SearchSpace) nextCandidate(v lattice.Vertical) (dependency.Candidate, bool) {
	var (
		next  dependency.Candidate
		found bool
		seen  int
	)

	randomly := s.ctx.Config().AscendRandomly
	for col := 0; col < s.ctx.Schema().NumColumns(); col++ {
		if v.Has(col) || s.strategy.IsIrrelevantColumn(col) {
			continue
		}

		ext := v.With(col)
		if s.scope != nil {
			if _, ok := s.scope.AnySupersetEntry(ext, nil); !ok {
				continue
			}
		}
		if s.isImpliedByMinDep(ext, s.global) {
			continue
		}

		cand := s.strategy.CreateCandidate(ext)
		if randomly {
			seen++
			if s.ctx.NextInt(seen) == 0 {
				next, found = cand, true
			}
			continue
		}
		if !found || cand.Error.Mean < next.Error.Mean {
			next, found = cand, true
		}
	}

	return next, found
}
