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

// Package partitions computes the partitions of arbitrary verticals from the
// single column partitions of a relation and caches the results for reuse.
package partitions

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/partition"
	"github.com/weaviate/depminer/entities/relation"
	"github.com/weaviate/depminer/entities/verticalmap"
	"github.com/weaviate/depminer/usecases/config"
	"github.com/weaviate/depminer/usecases/monitoring"
)

// CachingMethod decides which derived partitions are kept.
type CachingMethod string

const (
	CacheAll     CachingMethod = config.CachingAll
	CacheNone    CachingMethod = config.CachingNone
	CacheCoin    CachingMethod = config.CachingCoin
	CacheBounded CachingMethod = config.CachingBounded
)

type Options struct {
	Method               CachingMethod
	Probability          float64
	MaxEntries           int
	NaryIntersectionSize int
	Seed                 int64
}

// Cache is the partition engine of a discovery run. It is shared by all
// workers: the trie is guarded by mu, intersections run outside of it.
type Cache struct {
	relation *relation.Relation
	opts     Options
	logger   logrus.FieldLogger
	metrics  *monitoring.PrometheusMetrics
	full     *partition.Partition

	mu    sync.RWMutex
	index *verticalmap.Map[*partition.Partition]

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewCache(rel *relation.Relation, opts Options, logger logrus.FieldLogger,
	metrics *monitoring.PrometheusMetrics,
) *Cache {
	if opts.NaryIntersectionSize < 2 {
		opts.NaryIntersectionSize = 4
	}

	c := &Cache{
		relation: rel,
		opts:     opts,
		logger:   logger.WithField("action", "partition_cache"),
		metrics:  metrics,
		full:     partition.Full(rel.NumRows()),
		index:    verticalmap.New[*partition.Partition](rel.Schema()),
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}

	for _, col := range rel.Columns() {
		c.index.Put(col.Column().Vertical(), col.Partition())
	}
	c.metrics.SetPartitionCacheSize(c.index.Size())

	return c
}

func (c *Cache) Relation() *relation.Relation {
	return c.relation
}

// Size is the number of cached partitions, single columns included.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.index.Size()
}

// Get returns the cached partition of v, if any.
func (c *Cache) Get(v lattice.Vertical) (*partition.Partition, bool) {
	if v.IsEmpty() {
		return c.full, true
	}

	c.mu.RLock()
	p, ok := c.index.Get(v)
	c.mu.RUnlock()
	if ok {
		p.IncFreq()
	}
	return p, ok
}

type operand struct {
	vertical   lattice.Vertical
	partition  *partition.Partition
	addedArity int
}

// GetOrCreateFor returns the partition of v, deriving it from cached
// partitions if it is not cached itself.
func (c *Cache) GetOrCreateFor(v lattice.Vertical) *partition.Partition {
	if p, ok := c.Get(v); ok {
		c.metrics.PartitionCacheHit()
		return p
	}
	c.metrics.PartitionCacheMiss()

	c.mu.RLock()
	subsets := c.index.SubsetEntries(v)
	c.mu.RUnlock()

	var (
		ranks    = make([]operand, 0, len(subsets))
		smallest *operand
	)
	for _, e := range subsets {
		e.Value.IncFreq()
		ranks = append(ranks, operand{
			vertical:   e.Key,
			partition:  e.Value,
			addedArity: e.Key.Arity(),
		})
	}
	for i := range ranks {
		r := &ranks[i]
		if smallest == nil || smallest.partition.Size() > r.partition.Size() ||
			(smallest.partition.Size() == r.partition.Size() && smallest.addedArity < r.addedArity) {
			smallest = r
		}
	}

	var operands []operand
	cover := v.Schema().EmptyVertical()
	if smallest != nil {
		operands = append(operands, *smallest)
		cover = smallest.vertical
	}

	// greedily add the cached partitions covering the most missing columns
	for cover.Arity() < v.Arity() && len(ranks) > 0 {
		kept := ranks[:0]
		var best *operand
		for _, r := range ranks {
			r.addedArity = r.vertical.Without(cover).Arity()
			if r.addedArity < 2 {
				continue
			}
			kept = append(kept, r)
		}
		ranks = kept
		for i := range ranks {
			r := &ranks[i]
			if best == nil || best.addedArity < r.addedArity ||
				(best.addedArity == r.addedArity && best.partition.Size() > r.partition.Size()) {
				best = r
			}
		}
		if best == nil {
			break
		}
		operands = append(operands, *best)
		cover = cover.Union(best.vertical)
	}

	for _, col := range v.Without(cover).Indices() {
		data := c.relation.ColumnData(col)
		operands = append(operands, operand{
			vertical:   data.Column().Vertical(),
			partition:  data.Partition(),
			addedArity: 1,
		})
	}

	sort.SliceStable(operands, func(i, j int) bool {
		return operands[i].partition.Size() < operands[j].partition.Size()
	})

	if len(operands) >= c.opts.NaryIntersectionSize {
		base := operands[0]
		rest := v.Without(base.vertical).Indices()
		tables := make([][]int, len(rest))
		for i, col := range rest {
			tables[i] = c.relation.ColumnData(col).ProbingTable()
		}
		c.metrics.Intersected("nary")
		return c.cachingProcess(v, base.partition.ProbeAll(tables))
	}

	current := operands[0]
	for _, op := range operands[1:] {
		current.vertical = current.vertical.Union(op.vertical)
		current.partition = c.cachingProcess(current.vertical, current.partition.Intersect(op.partition))
		c.metrics.Intersected("pairwise")
	}

	c.logger.WithFields(logrus.Fields{
		"vertical": v,
		"operands": len(operands),
		"clusters": current.partition.NumClusters(),
	}).Trace("derived partition")

	return current.partition
}

// cachingProcess stores p for v according to the caching method and returns
// the partition to continue with.
func (c *Cache) cachingProcess(v lattice.Vertical, p *partition.Partition) *partition.Partition {
	switch c.opts.Method {
	case CacheNone:
		return p
	case CacheCoin:
		c.rngMu.Lock()
		keep := c.rng.Float64() < c.opts.Probability
		c.rngMu.Unlock()
		if !keep {
			return p
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.index.Get(v); ok {
		return existing
	}
	c.index.Put(v, p)

	if c.opts.Method == CacheBounded && c.index.Size() > c.opts.MaxEntries+c.relation.NumColumns() {
		c.shrink()
	}
	c.metrics.SetPartitionCacheSize(c.index.Size())

	return p
}

// shrink evicts the least used derived partitions until half of the cache is
// left. Single column partitions are never evicted. Must be called with mu
// held.
func (c *Cache) shrink() {
	removed := c.index.Shrink(0.5,
		func(a, b verticalmap.Entry[*partition.Partition]) bool {
			return a.Value.Freq() < b.Value.Freq()
		},
		func(e verticalmap.Entry[*partition.Partition]) bool {
			return e.Key.Arity() > 1
		},
	)

	c.logger.WithFields(logrus.Fields{
		"removed": removed,
		"size":    c.index.Size(),
	}).Debug("evicted partitions")
}
