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

// Package discovery runs the search spaces of a profiling run on a pool of
// workers.
package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/entities/dependency"
	enterrors "github.com/weaviate/depminer/entities/errors"
	"github.com/weaviate/depminer/entities/relation"
	"github.com/weaviate/depminer/usecases/config"
	"github.com/weaviate/depminer/usecases/monitoring"
	"github.com/weaviate/depminer/usecases/profiling"
	"github.com/weaviate/depminer/usecases/search"
	"github.com/weaviate/depminer/usecases/strategy"
)

var ErrEmptyRelation = errors.New("relation has no columns")

const defaultProgressInterval = 10 * time.Second

type Miner struct {
	config           config.Config
	logger           logrus.FieldLogger
	metrics          *monitoring.PrometheusMetrics
	progressInterval time.Duration
}

// Report summarizes a finished run.
type Report struct {
	RunID        string
	SearchSpaces int
	Workers      int
	Took         time.Duration
}

func NewMiner(cfg config.Config, logger logrus.FieldLogger, metrics *monitoring.PrometheusMetrics) *Miner {
	return &Miner{
		config:           cfg,
		logger:           logger,
		metrics:          metrics,
		progressInterval: defaultProgressInterval,
	}
}

// Run discovers the minimal dependencies of rel and registers them with sink.
// The first failing search space aborts the run.
func (m *Miner) Run(ctx context.Context, rel *relation.Relation, sink dependency.Sink) (Report, error) {
	report := Report{RunID: uuid.New().String()}
	logger := m.logger.WithField("run_id", report.RunID)

	if err := m.config.Validate(); err != nil {
		return report, err
	}
	if rel.NumColumns() == 0 {
		return report, ErrEmptyRelation
	}

	start := time.Now()
	pctx := profiling.NewContext(m.config, rel, sink, logger, m.metrics)
	m.metrics.ObservePhase("initialize", start)

	scheduler := NewScheduler(logger)
	for _, space := range m.searchSpaces(pctx) {
		scheduler.RegisterSearchSpace(space)
	}
	_, report.SearchSpaces = scheduler.Progress()

	report.Workers = m.config.Workers()
	if report.Workers > report.SearchSpaces {
		report.Workers = report.SearchSpaces
	}

	logger.WithFields(logrus.Fields{
		"action":        "discovery_start",
		"relation":      rel.Schema().Name(),
		"columns":       rel.NumColumns(),
		"rows":          rel.NumRows(),
		"search_spaces": report.SearchSpaces,
		"workers":       report.Workers,
	}).Info("starting dependency discovery")

	done := make(chan struct{})
	enterrors.GoWrapper(func() { m.logProgress(scheduler, logger, done) }, logger)

	eg, egCtx := enterrors.NewErrorGroupWithContextWrapper(logger, ctx)
	for i := 0; i < report.Workers; i++ {
		worker := NewWorker(i, scheduler, logger, m.metrics)
		eg.Go(func() error {
			return worker.Run(egCtx)
		}, i)
	}
	err := eg.Wait()
	close(done)

	report.Took = time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("action", "discovery_failed").Error("dependency discovery failed")
		return report, err
	}

	logger.WithFields(logrus.Fields{
		"action":            "discovery_done",
		"took":              report.Took,
		"cached_partitions": pctx.Partitions().Size(),
	}).Info("dependency discovery finished")
	return report, nil
}

// searchSpaces creates one search space for keys and one for every FD
// target, depending on the configuration.
func (m *Miner) searchSpaces(ctx *profiling.Context) []*search.SearchSpace {
	less := dependency.ByErrorThenArity
	if m.config.LaunchPadOrder == config.LaunchPadOrderArity {
		less = dependency.ByArityThenError
	}

	var spaces []*search.SearchSpace
	id := 0
	if m.config.FindKeys {
		key := strategy.NewKeyStrategy(ctx, m.config.MaxError, m.config.ErrorDeviation)
		spaces = append(spaces, search.New(id, key, ctx, less))
		id++
	}
	if m.config.FindFDs {
		for _, col := range ctx.Schema().Columns() {
			fd := strategy.NewFDStrategy(ctx, col, m.config.MaxError, m.config.ErrorDeviation)
			spaces = append(spaces, search.New(id, fd, ctx, less))
			id++
		}
	}
	return spaces
}

func (m *Miner) logProgress(scheduler *Scheduler, logger logrus.FieldLogger, done <-chan struct{}) {
	t := time.NewTicker(m.progressInterval)
	defer t.Stop()

	for {
		select {
		case <-done:
			return
		case <-t.C:
			finished, total := scheduler.Progress()
			logger.WithFields(logrus.Fields{
				"action":   "discovery_progress",
				"finished": finished,
				"total":    total,
			}).Info("search spaces exhausted so far")
		}
	}
}
