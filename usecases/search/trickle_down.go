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
	"container/heap"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/verticalmap"
)

// trickleDown finds the minimal dependencies below mainPeak and registers
// them with the sink. Regions it cannot settle are handed to a nested search
// space.
func (s *SearchSpace) trickleDown(mainPeak lattice.Vertical, mainPeakErr float64) error {
	start := time.Now()
	defer s.metrics.ObservePhase("trickle_down", start)

	schema := s.ctx.Schema()
	minNonDep := s.strategy.MinNonDependencyError()

	peaks := newCandidateHeap(byDescendingArity)
	heap.Push(peaks, dependency.ExactCandidate(mainPeak, mainPeakErr))
	alleged := verticalmap.New[dependency.Info](schema)
	allegedNonDeps := map[string]lattice.Vertical{}

	for peaks.Len() > 0 {
		peak := peaks.Top()

		if deps := subsetDependencies(peak.Vertical, alleged); len(deps) > 0 {
			heap.Pop(peaks)
			for _, h := range s.hittingSet(deps, nil) {
				escaped := peak.Vertical.Without(h)
				if escaped.IsEmpty() {
					continue
				}
				if _, ok := allegedNonDeps[escaped.Key()]; ok {
					continue
				}

				cand := s.strategy.CreateCandidate(escaped)
				if cand.Error.Mean > minNonDep {
					allegedNonDeps[escaped.Key()] = escaped
					continue
				}
				if s.isKnownNonDependencyAnywhere(escaped) {
					continue
				}
				heap.Push(peaks, cand)
			}
			continue
		}

		_, found, err := s.trickleDownFrom(peak, alleged, allegedNonDeps)
		if err != nil {
			return err
		}
		if !found {
			heap.Pop(peaks)
		}
	}

	for _, e := range alleged.Entries() {
		if !e.Value.IsExtremal || s.global.ContainsKey(e.Key) {
			continue
		}
		if err := s.registerMinimalDependency(e.Key, e.Value); err != nil {
			return err
		}
	}

	if err := s.collectUnsettledPeaks(mainPeak, alleged, peaks); err != nil {
		return err
	}

	if peaks.Len() == 0 {
		for _, e := range alleged.Entries() {
			if e.Value.IsExtremal || s.global.ContainsKey(e.Key) {
				continue
			}
			e.Value.IsExtremal = true
			if err := s.registerMinimalDependency(e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := s.discoverNested(peaks.items); err != nil {
		return err
	}

	for _, e := range alleged.Entries() {
		if s.isImpliedByMinDep(e.Key, s.global) {
			continue
		}
		e.Value.IsExtremal = true
		if err := s.registerMinimalDependency(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// collectUnsettledPeaks derives the maximal non-dependencies below mainPeak
// from the alleged minimal dependencies. Those that turn out to be
// dependencies are pushed to peaks.
func (s *SearchSpace) collectUnsettledPeaks(mainPeak lattice.Vertical,
	alleged *verticalmap.Map[dependency.Info], peaks *candidateHeap,
) error {
	minNonDep := s.strategy.MinNonDependencyError()

	allegedMinDeps := alleged.Keys()
	for _, dep := range allegedMinDeps {
		if !mainPeak.Contains(dep) {
			return errors.Wrapf(ErrInconsistentEstimate,
				"alleged minimal dependency %s outside of peak %s", dep, mainPeak)
		}
	}

	settled := map[string]struct{}{}
	for _, h := range s.hittingSet(allegedMinDeps, nil) {
		nonDep := h.InvertWithin(mainPeak)
		if nonDep.IsEmpty() {
			continue
		}
		if _, ok := settled[nonDep.Key()]; ok {
			continue
		}
		if s.isKnownNonDependencyAnywhere(nonDep) {
			continue
		}

		var nonDepErr float64
		if s.ctx.Config().EstimateOnly {
			nonDepErr = s.strategy.CreateCandidate(nonDep).Error.Mean
		} else {
			var err error
			if nonDepErr, err = s.calculateError(nonDep); err != nil {
				return err
			}
		}

		if nonDepErr > minNonDep {
			settled[nonDep.Key()] = struct{}{}
			s.local.Put(nonDep, dependency.ForNonDependency())
			continue
		}
		heap.Push(peaks, dependency.ExactCandidate(nonDep, nonDepErr))
	}
	return nil
}

// trickleDownFrom looks for a minimal dependency at or below cand, trying the
// most promising parents first.
func (s *SearchSpace) trickleDownFrom(cand dependency.Candidate, alleged *verticalmap.Map[dependency.Info],
	allegedNonDeps map[string]lattice.Vertical,
) (lattice.Vertical, bool, error) {
	maxDep := s.strategy.MaxDependencyError()
	minNonDep := s.strategy.MinNonDependencyError()

	if s.ctx.Config().CheckEstimates && cand.Error.Min > minNonDep {
		return lattice.Vertical{}, false, errors.Wrapf(ErrInconsistentEstimate,
			"trickle down from %s with minimum error %v", s.strategy.Format(cand.Vertical), cand.Error.Min)
	}

	allParentsNonDeps := true
	if cand.Arity() > 1 {
		parents := newCandidateHeap(dependency.ByMinError)
		for _, p := range cand.Vertical.Parents() {
			if s.isKnownNonDependencyAnywhere(p) {
				continue
			}
			if _, ok := allegedNonDeps[p.Key()]; ok {
				allParentsNonDeps = false
				continue
			}
			heap.Push(parents, s.strategy.CreateCandidate(p))
		}

		for parents.Len() > 0 {
			parent := heap.Pop(parents).(dependency.Candidate)
			if parent.Error.Min > minNonDep {
				s.drainParents(parent, parents, allegedNonDeps, &allParentsNonDeps)
				break
			}

			found, ok, err := s.trickleDownFrom(parent, alleged, allegedNonDeps)
			if err != nil {
				return lattice.Vertical{}, false, err
			}
			if ok {
				return found, true, nil
			}

			if !cand.IsExact() {
				candErr, err := s.calculateError(cand.Vertical)
				if err != nil {
					return lattice.Vertical{}, false, err
				}
				cand = dependency.ExactCandidate(cand.Vertical, candErr)
				if candErr > minNonDep {
					break
				}
			}
		}
	}

	candErr := cand.Error.Mean
	if !cand.IsExact() {
		var err error
		if candErr, err = s.calculateError(cand.Vertical); err != nil {
			return lattice.Vertical{}, false, err
		}
	}

	if candErr <= maxDep {
		alleged.RemoveSupersetEntries(cand.Vertical)
		alleged.Put(cand.Vertical, dependency.Info{
			IsDependency: true,
			IsExtremal:   allParentsNonDeps,
			Error:        candErr,
		})

		if allParentsNonDeps && s.ctx.Config().CheckEstimates {
			if err := s.requireMinimalDependency(cand.Vertical); err != nil {
				return lattice.Vertical{}, false, err
			}
		}
		return cand.Vertical, true, nil
	}

	s.local.Put(cand.Vertical, dependency.ForNonDependency())
	s.resampleIfNeeded(cand.Vertical)
	return lattice.Vertical{}, false, nil
}

// drainParents settles the remaining parents once the first of them is
// estimated to be a non-dependency.
func (s *SearchSpace) drainParents(first dependency.Candidate, parents *candidateHeap,
	allegedNonDeps map[string]lattice.Vertical, allParentsNonDeps *bool,
) {
	parent := first
	for {
		if parent.IsExact() {
			s.local.Put(parent.Vertical, dependency.ForNonDependency())
		} else {
			allegedNonDeps[parent.Vertical.Key()] = parent.Vertical
			*allParentsNonDeps = false
		}

		if parents.Len() == 0 {
			return
		}
		parent = heap.Pop(parents).(dependency.Candidate)
	}
}

func (s *SearchSpace) requireMinimalDependency(v lattice.Vertical) error {
	maxDep := s.strategy.MaxDependencyError()

	depErr, err := s.calculateError(v)
	if err != nil {
		return err
	}
	if depErr > maxDep {
		return errors.Wrapf(ErrInconsistentEstimate,
			"%s registered as dependency with error %v", s.strategy.Format(v), depErr)
	}

	for _, parent := range v.Parents() {
		parentErr, err := s.calculateError(parent)
		if err != nil {
			return err
		}
		if parentErr <= maxDep {
			return errors.Wrapf(ErrInconsistentEstimate,
				"%s is not minimal, %s has error %v", s.strategy.Format(v), parent, parentErr)
		}
	}
	return nil
}

func (s *SearchSpace) registerMinimalDependency(v lattice.Vertical, info dependency.Info) error {
	s.global.Put(v, info)
	if err := s.strategy.RegisterDependency(v, info.Error, s.ctx.Sink()); err != nil {
		return errors.Wrapf(err, "register %s", s.strategy.Format(v))
	}

	s.logger.WithFields(logrus.Fields{
		"dependency":      s.strategy.Format(v),
		"error":           info.Error,
		"recursion_depth": s.recursionDepth,
	}).Debug("registered minimal dependency")
	return nil
}

// discoverNested explores the unsettled peaks in a nested search space that
// takes over the visitee indexes while it runs.
func (s *SearchSpace) discoverNested(peaks []dependency.Candidate) error {
	s.metrics.NestedSearchSpace()
	schema := s.ctx.Schema()

	scope := verticalmap.New[lattice.Vertical](schema)
	columns := schema.EmptyVertical()
	for _, p := range peaks {
		scope.Put(p.Vertical, p.Vertical)
		columns = columns.Union(p.Vertical)
	}

	nested := s.newNested(scope)
	for _, col := range columns.Indices() {
		nested.AddLaunchPad(nested.strategy.CreateCandidate(schema.VerticalOf(col)))
	}

	s.logger.WithFields(logrus.Fields{
		"peaks":           len(peaks),
		"scope_columns":   columns,
		"recursion_depth": nested.recursionDepth,
	}).Debug("starting nested search space")

	nested.global, s.global = s.global, nil
	nested.local, s.local = s.local, nil
	err := nested.Discover()
	s.global, nested.global = nested.global, nil
	s.local, nested.local = nested.local, nil

	return errors.Wrap(err, "nested search space")
}

func subsetDependencies(v lattice.Vertical, alleged *verticalmap.Map[dependency.Info]) []lattice.Vertical {
	var deps []lattice.Vertical
	for _, e := range alleged.SubsetEntries(v) {
		if e.Value.IsDependency {
			deps = append(deps, e.Key)
		}
	}
	return deps
}
