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

package discovery

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/usecases/monitoring"
)

type Worker struct {
	id        int
	logger    logrus.FieldLogger
	scheduler *Scheduler
	metrics   *monitoring.PrometheusMetrics
}

func NewWorker(id int, scheduler *Scheduler, logger logrus.FieldLogger,
	metrics *monitoring.PrometheusMetrics,
) *Worker {
	return &Worker{
		id:        id,
		logger:    logger.WithFields(logrus.Fields{"action": "discovery_worker", "worker": id}),
		scheduler: scheduler,
		metrics:   metrics,
	}
}

// Run polls search spaces until the queue is drained. The context is only
// consulted between two search spaces.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		space, ok := w.scheduler.Next()
		if !ok {
			return nil
		}

		if err := w.do(space); err != nil {
			return err
		}
	}
}

func (w *Worker) do(space searchSpace) error {
	start := time.Now()

	if err := space.EnsureInitialized(); err != nil {
		return err
	}
	if err := space.Discover(); err != nil {
		return errors.Wrapf(err, "discover %s", space)
	}

	w.scheduler.Done()
	w.metrics.SearchSpaceDone()
	w.logger.WithFields(logrus.Fields{
		"search_space": space.String(),
		"took":         time.Since(start),
	}).Debug("search space exhausted")
	return nil
}

type searchSpace interface {
	EnsureInitialized() error
	Discover() error
	String() string
}
