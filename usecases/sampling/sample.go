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

// Package sampling estimates dependency errors from agree sets of sampled row
// pairs.
package sampling

import (
	"math"
	"math/rand"
	"sort"

	"github.com/weaviate/sroar"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/entities/partition"
	"github.com/weaviate/depminer/entities/relation"
)

// stdDevSmoothing keeps the standard deviation of a sample with zero or all
// hits above zero.
const stdDevSmoothing = 1

// maxDrawFactor bounds the draws of a sample to maxDrawFactor times its size.
const maxDrawFactor = 8

type agreeSetCount struct {
	agreeSet lattice.Bitset
	count    uint64
}

// Sample holds the agree sets of row pairs that agree on its focus. Its
// population are all row pairs agreeing on the focus.
type Sample struct {
	focus         lattice.Vertical
	sampleSize    uint64
	population    uint64
	numTuplePairs uint64
	agreeSets     []agreeSetCount
}

// NewFocusedSample samples up to size row pairs from the clusters of
// focusPartition. A sample covering the whole population is exact.
func NewFocusedSample(rel *relation.Relation, focus lattice.Vertical,
	focusPartition *partition.Partition, size int, rng *rand.Rand,
) *Sample {
	s := &Sample{
		focus:         focus,
		population:    focusPartition.NEP(),
		numTuplePairs: rel.NumTuplePairs(),
	}

	counts := make(map[string]*agreeSetCount)
	record := func(a, b int) {
		agreeSet := agreeSetOf(rel, a, b)
		key := agreeSet.Key()
		if c, ok := counts[key]; ok {
			c.count++
		} else {
			counts[key] = &agreeSetCount{agreeSet: agreeSet, count: 1}
		}
		s.sampleSize++
	}

	if size < 0 {
		size = 0
	}
	if uint64(size) >= s.population {
		for _, cluster := range focusPartition.Clusters() {
			for i := 0; i < len(cluster); i++ {
				for j := i + 1; j < len(cluster); j++ {
					record(cluster[i], cluster[j])
				}
			}
		}
	} else {
		s.draw(focusPartition, size, rng, record)
	}

	s.agreeSets = make([]agreeSetCount, 0, len(counts))
	for _, c := range counts {
		s.agreeSets = append(s.agreeSets, *c)
	}
	sort.Slice(s.agreeSets, func(i, j int) bool {
		return s.agreeSets[i].count > s.agreeSets[j].count
	})

	return s
}

// draw picks row pairs uniformly without replacement. Every pair of the
// population has an id, drawn ids are tracked in a bitmap.
func (s *Sample) draw(p *partition.Partition, size int, rng *rand.Rand, record func(a, b int)) {
	clusters := p.Clusters()
	offsets := make([]uint64, len(clusters))
	var total uint64
	for i, c := range clusters {
		offsets[i] = total
		total += partition.NumPairs(len(c))
	}

	drawn := sroar.NewBitmap()
	for attempts := 0; drawn.GetCardinality() < size && attempts < maxDrawFactor*size; attempts++ {
		r := uint64(rng.Int63n(int64(total)))
		ci := sort.Search(len(offsets), func(i int) bool { return offsets[i] > r }) - 1
		cluster := clusters[ci]

		n := len(cluster)
		i, j := rng.Intn(n), rng.Intn(n-1)
		if j >= i {
			j++
		}
		if i > j {
			i, j = j, i
		}
		// index of the pair (i, j) among the pairs of the cluster
		local := uint64(i*n-i*(i+1)/2) + uint64(j-i-1)
		id := offsets[ci] + local
		if drawn.Contains(id) {
			continue
		}
		drawn.Set(id)
		record(cluster[i], cluster[j])
	}
}

func agreeSetOf(rel *relation.Relation, a, b int) lattice.Bitset {
	agreeSet := lattice.NewBitset(rel.NumColumns())
	for i, col := range rel.Columns() {
		ids := col.ValueIDs()
		if ids[a] == ids[b] {
			agreeSet.Set(i)
		}
	}
	return agreeSet
}

func (s *Sample) Focus() lattice.Vertical {
	return s.focus
}

func (s *Sample) Size() uint64 {
	return s.sampleSize
}

func (s *Sample) Population() uint64 {
	return s.population
}

// IsExact reports whether the sample covers its whole population.
func (s *Sample) IsExact() bool {
	return s.sampleSize >= s.population
}

// SamplingRatio is the share of the population that was sampled.
func (s *Sample) SamplingRatio() float64 {
	if s.population == 0 {
		return 1
	}
	return float64(s.sampleSize) / float64(s.population)
}

// NumAgreeSupersets counts the sampled pairs that agree on all columns of
// agreement and on none of disagreement.
func (s *Sample) NumAgreeSupersets(agreement, disagreement lattice.Vertical) uint64 {
	agree, disagree := agreement.Bits(), disagreement.Bits()

	var hits uint64
	for _, as := range s.agreeSets {
		if as.agreeSet.ContainsAll(agree) && !as.agreeSet.Intersects(disagree) {
			hits += as.count
		}
	}
	return hits
}

// EstimateAgreements estimates the share of all row pairs agreeing on
// agreement.
func (s *Sample) EstimateAgreements(agreement lattice.Vertical, confidence float64) dependency.ConfidenceInterval {
	return s.EstimateMixed(agreement, agreement.Schema().EmptyVertical(), confidence)
}

// EstimateMixed estimates the share of all row pairs agreeing on agreement
// and disagreeing on every column of disagreement. The focus must be a subset
// of agreement.
func (s *Sample) EstimateMixed(agreement, disagreement lattice.Vertical, confidence float64) dependency.ConfidenceInterval {
	if !agreement.Contains(s.focus) {
		panic("sample focus " + s.focus.String() + " not part of " + agreement.String())
	}
	if s.population == 0 || s.sampleSize == 0 || s.numTuplePairs == 0 {
		return dependency.Point(0)
	}

	return s.estimateGivenNumHits(s.NumAgreeSupersets(agreement, disagreement), confidence)
}

func (s *Sample) estimateGivenNumHits(hits uint64, confidence float64) dependency.ConfidenceInterval {
	if s.IsExact() {
		return dependency.Point(float64(hits) / float64(s.numTuplePairs))
	}

	sampleRatio := float64(hits) / float64(s.sampleSize)
	relationRatio := s.toRelationRatio(sampleRatio)

	z := distuv.UnitNormal.Quantile((confidence + 1) / 2)
	smoothed := (float64(hits) + stdDevSmoothing/2.) / (float64(s.sampleSize) + stdDevSmoothing)
	stdDev := math.Sqrt(smoothed * (1 - smoothed) / float64(s.sampleSize))

	minRatio := math.Max(sampleRatio-z*stdDev, float64(hits)/float64(s.population))
	maxRatio := math.Min(sampleRatio+z*stdDev, 1)
	if minRatio > sampleRatio {
		minRatio = sampleRatio
	}

	return dependency.NewConfidenceInterval(
		s.toRelationRatio(minRatio),
		relationRatio,
		s.toRelationRatio(maxRatio),
	)
}

func (s *Sample) toRelationRatio(sampleRatio float64) float64 {
	if s.numTuplePairs == 0 {
		return 0
	}
	return sampleRatio * float64(s.population) / float64(s.numTuplePairs)
}
