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

package profiling

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/depminer/entities/relation"
	"github.com/weaviate/depminer/usecases/config"
)

func TestContextSeedsSamples(t *testing.T) {
	rel, err := relation.FromRecords("t", []string{"A", "B"}, [][]string{
		{"1", "x"}, {"1", "y"}, {"2", "y"}, {"2", "y"},
	}, true)
	require.Nil(t, err)
	logger, _ := test.NewNullLogger()

	ctx := NewContext(config.Defaults(), rel, nil, logger, nil)
	s := rel.Schema()

	sample, ok := ctx.AgreeSetSample(s.VerticalOf(0, 1))
	require.True(t, ok)
	assert.True(t, sample.IsExact())
	assert.False(t, sample.Focus().IsEmpty(), "column samples are preferred over the empty focus")

	sample, ok = ctx.AgreeSetSample(s.EmptyVertical())
	require.True(t, ok)
	assert.Equal(t, rel.NumTuplePairs(), sample.Population())

	n := ctx.NextInt(3)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 3)
}

func TestContextWithoutSampling(t *testing.T) {
	rel, err := relation.FromRecords("t", []string{"A"}, [][]string{{"1"}, {"1"}}, true)
	require.Nil(t, err)
	logger, _ := test.NewNullLogger()

	cfg := config.Defaults()
	cfg.SampleSize = 0
	ctx := NewContext(cfg, rel, nil, logger, nil)

	_, ok := ctx.AgreeSetSample(rel.Schema().VerticalOf(0))
	assert.False(t, ok)
	assert.Equal(t, 1, ctx.Partitions().Size())
}
