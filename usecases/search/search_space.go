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

// Package search traverses the lattice of verticals of one target. A search
// space climbs from launch pads to dependencies, trickles down from there to
// the minimal dependencies and escapes launch pads out of the regions it
// already knows.
package search

import (
	"fmt"
	"time"

	"github.com/google/btree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/verticalmap"
	"github.com/weaviate/depminer/usecases/monitoring"
	"github.com/weaviate/depminer/usecases/profiling"
	"github.com/weaviate/depminer/usecases/strategy"
)

var ErrInconsistentEstimate = errors.New("inconsistent error estimate")

const btreeDegree = 8

type launchPad struct {
	dependency.Candidate
	less dependency.Less
}

func (l launchPad) Less(than btree.Item) bool {
	return l.less(l.Candidate, than.(launchPad).Candidate)
}

type SearchSpace struct {
	id       int
	strategy strategy.Strategy
	ctx      *profiling.Context
	less     dependency.Less
	logger   logrus.FieldLogger
	metrics  *monitoring.PrometheusMetrics

	launchPads     *btree.BTree
	launchPadIndex *verticalmap.Map[dependency.Candidate]
	deferred       []dependency.Candidate

	global *verticalmap.Map[dependency.Info]
	local  *verticalmap.Map[dependency.Info]
	scope  *verticalmap.Map[lattice.Vertical]

	recursionDepth int
	sampleBoost    float64
	initialized    bool
}

// New creates a top level search space. Launch pads are polled in the order
// given by less.
func New(id int, strat strategy.Strategy, ctx *profiling.Context, less dependency.Less) *SearchSpace {
	schema := ctx.Schema()
	return &SearchSpace{
		id:       id,
		strategy: strat,
		ctx:      ctx,
		less:     less,
		logger: ctx.Logger().WithFields(logrus.Fields{
			"search_space": id,
			"strategy":     strat.String(),
		}),
		metrics:        ctx.Metrics(),
		launchPads:     btree.New(btreeDegree),
		launchPadIndex: verticalmap.New[dependency.Candidate](schema),
		global:         verticalmap.New[dependency.Info](schema),
		sampleBoost:    1,
	}
}

// newNested creates the search space exploring scope below a trickle down.
// It shares the context and receives its visitee indexes from the caller.
func (s *SearchSpace) newNested(scope *verticalmap.Map[lattice.Vertical]) *SearchSpace {
	schema := s.ctx.Schema()
	return &SearchSpace{
		id:             s.id,
		strategy:       s.strategy.Clone(),
		ctx:            s.ctx,
		less:           s.less,
		logger:         s.logger.WithField("recursion_depth", s.recursionDepth+1),
		metrics:        s.metrics,
		launchPads:     btree.New(btreeDegree),
		launchPadIndex: verticalmap.New[dependency.Candidate](schema),
		scope:          scope,
		recursionDepth: s.recursionDepth + 1,
		sampleBoost:    s.sampleBoost * s.ctx.Config().SampleBooster,
	}
}

func (s *SearchSpace) ID() int {
	return s.id
}

func (s *SearchSpace) Strategy() strategy.Strategy {
	return s.strategy
}

func (s *SearchSpace) String() string {
	return fmt.Sprintf("search space %d (%s)", s.id, s.strategy)
}

// EnsureInitialized lets the strategy seed the launch pads once.
func (s *SearchSpace) EnsureInitialized() error {
	if s.initialized {
		return nil
	}

	if err := s.strategy.EnsureInitialized(s); err != nil {
		return errors.Wrapf(err, "initialize %s", s)
	}
	s.initialized = true
	return nil
}

func (s *SearchSpace) AddLaunchPad(c dependency.Candidate) {
	s.launchPads.ReplaceOrInsert(launchPad{Candidate: c, less: s.less})
	s.launchPadIndex.Put(c.Vertical, c)
}

// Discover runs the search space to exhaustion.
func (s *SearchSpace) Discover() error {
	if s.local == nil {
		s.local = verticalmap.New[dependency.Info](s.ctx.Schema())
	}

	for {
		pad, ok := s.pollLaunchPad()
		if !ok {
			break
		}

		found, err := s.ascend(pad)
		if err != nil {
			return errors.Wrapf(err, "ascend from %s", s.strategy.Format(pad.Vertical))
		}
		s.returnLaunchPad(pad, !found)
	}

	s.logger.WithFields(logrus.Fields{
		"action":          "discover",
		"recursion_depth": s.recursionDepth,
		"global_visitees": s.global.Size(),
	}).Debug("search space exhausted")
	return nil
}

func (s *SearchSpace) pollLaunchPad() (dependency.Candidate, bool) {
	start := time.Now()
	defer s.metrics.ObservePhase("poll", start)

	for {
		if s.launchPads.Len() == 0 {
			if len(s.deferred) == 0 {
				return dependency.Candidate{}, false
			}

			s.logger.WithField("deferred", len(s.deferred)).Trace("re-adding deferred launch pads")
			for _, c := range s.deferred {
				s.launchPads.ReplaceOrInsert(launchPad{Candidate: c, less: s.less})
			}
			s.deferred = nil
		}

		pad := s.launchPads.DeleteMin().(launchPad).Candidate
		s.launchPadIndex.Remove(pad.Vertical)

		if s.isImpliedByMinDep(pad.Vertical, s.global) || s.isImpliedByMinDep(pad.Vertical, s.local) {
			s.logger.WithField("launch_pad", pad).Trace("dropping launch pad implied by a minimal dependency")
			continue
		}

		var pruning []lattice.Vertical
		for _, m := range []*verticalmap.Map[dependency.Info]{s.global, s.local} {
			for _, e := range m.SupersetEntries(pad.Vertical) {
				if e.Value.IsPruningSubsets() {
					pruning = append(pruning, e.Key)
				}
			}
		}
		if len(pruning) == 0 {
			return pad, true
		}

		s.escapeLaunchPad(pad.Vertical, pruning)
	}
}

// escapeLaunchPad replaces a launch pad that lies below known
// non-dependencies by its smallest extensions leaving all of them.
func (s *SearchSpace) escapeLaunchPad(pad lattice.Vertical, pruningSupersets []lattice.Vertical) {
	irrelevant := s.strategy.IrrelevantColumns()
	complements := make([]lattice.Vertical, len(pruningSupersets))
	for i, sup := range pruningSupersets {
		complements[i] = sup.Invert().Without(irrelevant)
	}

	escapings := s.hittingSet(complements, func(h lattice.Vertical) bool {
		candidate := pad.Union(h)
		if s.scope != nil {
			if _, ok := s.scope.AnySupersetEntry(candidate, nil); !ok {
				return true
			}
		}
		if s.isImpliedByMinDep(candidate, s.global) || s.isImpliedByMinDep(candidate, s.local) {
			return true
		}
		_, ok := s.launchPadIndex.AnySubsetEntry(candidate, nil)
		return ok
	})

	maxLHS := s.maxLHS()
	for _, h := range escapings {
		escaped := pad.Union(h)
		if escaped.Arity() > maxLHS {
			continue
		}
		s.AddLaunchPad(s.strategy.CreateCandidate(escaped))
	}

	s.logger.WithFields(logrus.Fields{
		"launch_pad": pad,
		"escaped":    len(escapings),
	}).Trace("escaped launch pad")
}

func (s *SearchSpace) returnLaunchPad(pad dependency.Candidate, deferIt bool) {
	if deferIt && s.ctx.Config().DeferFailedLaunchPads {
		s.deferred = append(s.deferred, pad)
		s.launchPadIndex.Put(pad.Vertical, pad)
		return
	}

	s.AddLaunchPad(pad)
}

func (s *SearchSpace) maxLHS() int {
	if max := s.ctx.Config().MaxLHS; max > 0 {
		return max
	}
	return s.ctx.Schema().NumColumns()
}

func (s *SearchSpace) isImpliedByMinDep(v lattice.Vertical, visitees *verticalmap.Map[dependency.Info]) bool {
	if visitees == nil {
		return false
	}

	_, ok := visitees.AnySubsetEntry(v, func(_ lattice.Vertical, info dependency.Info) bool {
		return info.IsDependency && info.IsExtremal
	})
	return ok
}

func (s *SearchSpace) isKnownNonDependency(v lattice.Vertical, visitees *verticalmap.Map[dependency.Info]) bool {
	if visitees == nil {
		return false
	}

	_, ok := visitees.AnySupersetEntry(v, func(_ lattice.Vertical, info dependency.Info) bool {
		return !info.IsDependency
	})
	return ok
}

func (s *SearchSpace) isKnownNonDependencyAnywhere(v lattice.Vertical) bool {
	return s.isKnownNonDependency(v, s.local) || s.isKnownNonDependency(v, s.global)
}

func (s *SearchSpace) calculateError(v lattice.Vertical) (float64, error) {
	err, calcErr := s.strategy.CalculateError(v)
	if calcErr != nil {
		return 0, errors.Wrapf(calcErr, "calculate error of %s", s.strategy.Format(v))
	}
	return err, nil
}

func (s *SearchSpace) resampleIfNeeded(v lattice.Vertical) {
	if s.strategy.ShouldResample(v, s.sampleBoost) {
		s.ctx.CreateFocusedSample(v, s.sampleBoost)
	}
}
