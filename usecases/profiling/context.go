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

// Package profiling bundles the state shared by all search spaces of one
// discovery run.
package profiling

import (
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/relation"
	"github.com/weaviate/depminer/usecases/config"
	"github.com/weaviate/depminer/usecases/monitoring"
	"github.com/weaviate/depminer/usecases/partitions"
	"github.com/weaviate/depminer/usecases/sampling"
)

type Context struct {
	config     config.Config
	relation   *relation.Relation
	partitions *partitions.Cache
	samples    *sampling.Registry
	sink       dependency.Sink
	logger     logrus.FieldLogger
	metrics    *monitoring.PrometheusMetrics

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewContext(cfg config.Config, rel *relation.Relation, sink dependency.Sink,
	logger logrus.FieldLogger, metrics *monitoring.PrometheusMetrics,
) *Context {
	seed := cfg.EffectiveSeed()

	c := &Context{
		config:   cfg,
		relation: rel,
		partitions: partitions.NewCache(rel, partitions.Options{
			Method:               partitions.CachingMethod(cfg.CachingMethod),
			Probability:          cfg.CachingProbability,
			MaxEntries:           cfg.CacheMaxEntries,
			NaryIntersectionSize: cfg.NaryIntersectionSize,
			Seed:                 seed,
		}, logger, metrics),
		samples: sampling.NewRegistry(rel.Schema()),
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		rng:     rand.New(rand.NewSource(seed)),
	}

	if cfg.SampleSize > 0 {
		c.CreateFocusedSample(rel.Schema().EmptyVertical(), 1)
		for _, col := range rel.Schema().Columns() {
			c.CreateFocusedSample(col.Vertical(), 1)
		}
	}

	c.logColumnStatistics()

	return c
}

func (c *Context) Config() config.Config {
	return c.config
}

func (c *Context) Relation() *relation.Relation {
	return c.relation
}

func (c *Context) Schema() *lattice.Schema {
	return c.relation.Schema()
}

func (c *Context) Partitions() *partitions.Cache {
	return c.partitions
}

func (c *Context) Sink() dependency.Sink {
	return c.sink
}

func (c *Context) Logger() logrus.FieldLogger {
	return c.logger
}

func (c *Context) Metrics() *monitoring.PrometheusMetrics {
	return c.metrics
}

// AgreeSetSample returns the best sample usable for v, if sampling is on.
func (c *Context) AgreeSetSample(v lattice.Vertical) (*sampling.Sample, bool) {
	return c.samples.Best(v)
}

// CreateFocusedSample samples SampleSize*boost pairs agreeing on focus and
// registers the sample.
func (c *Context) CreateFocusedSample(focus lattice.Vertical, boost float64) *sampling.Sample {
	p := c.partitions.GetOrCreateFor(focus)
	size := int(float64(c.config.SampleSize) * boost)

	// rand.Rand is not safe for concurrent use, give the sample its own
	c.rngMu.Lock()
	rng := rand.New(rand.NewSource(c.rng.Int63()))
	c.rngMu.Unlock()

	sample := sampling.NewFocusedSample(c.relation, focus, p, size, rng)
	c.samples.Add(sample)
	c.metrics.Resampled()

	c.logger.WithFields(logrus.Fields{
		"action":     "create_sample",
		"focus":      focus,
		"size":       sample.Size(),
		"population": sample.Population(),
	}).Trace("created focused agree set sample")

	return sample
}

// NextInt returns a pseudo random number in [0, n).
func (c *Context) NextInt(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	return c.rng.Intn(n)
}

func (c *Context) logColumnStatistics() {
	if c.relation.NumColumns() < 2 {
		return
	}

	entropies := make([]float64, c.relation.NumColumns())
	for i, col := range c.relation.Columns() {
		entropies[i] = col.Partition().Entropy()
	}
	mean, std := stat.MeanStdDev(entropies, nil)

	c.logger.WithFields(logrus.Fields{
		"action":         "profiling_context",
		"rows":           c.relation.NumRows(),
		"columns":        c.relation.NumColumns(),
		"entropy_mean":   mean,
		"entropy_stddev": std,
		"samples":        c.samples.Size(),
	}).Debug("profiling context ready")
}
