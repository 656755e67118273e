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
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/depminer/adapters/sinks"
	"github.com/weaviate/depminer/entities/relation"
	"github.com/weaviate/depminer/usecases/config"
	"github.com/weaviate/depminer/usecases/monitoring"
)

func abcdRelation(t *testing.T) *relation.Relation {
	rel, err := relation.FromRecords("abcd", []string{"A", "B", "C", "D"}, [][]string{
		{"1", "1", "1", "x"},
		{"1", "2", "2", "x"},
		{"2", "1", "2", "y"},
		{"2", "2", "1", "y"},
		{"3", "1", "1", "z"},
		{"3", "2", "2", "z"},
	}, true)
	require.Nil(t, err)
	return rel
}

func exactConfig(parallelism int) config.Config {
	cfg := config.Defaults()
	cfg.MaxError = 0
	cfg.Parallelism = parallelism
	cfg.CheckEstimates = true
	return cfg
}

func TestMinerRun(t *testing.T) {
	logger, _ := test.NewNullLogger()
	reg := prometheus.NewPedanticRegistry()
	metrics := monitoring.NewPrometheusMetrics(reg)

	collector := sinks.NewCollector(logger)
	report, err := NewMiner(exactConfig(2), logger, metrics).Run(context.Background(), abcdRelation(t), collector)
	require.Nil(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 5, report.SearchSpaces)
	assert.Equal(t, 2, report.Workers)
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.SearchSpacesDone))

	var fds []string
	for _, fd := range collector.FDs() {
		fds = append(fds, fmt.Sprintf("%s -> %s", fd.LHS, fd.RHS.Name()))
	}
	assert.Contains(t, fds, "[A] -> D")
	assert.NotContains(t, fds, "[B, C] -> D")

	var uccs []string
	for _, ucc := range collector.UCCs() {
		uccs = append(uccs, ucc.Vertical.String())
	}
	assert.Contains(t, uccs, "[A, B]")
	assert.Contains(t, uccs, "[A, C]")
	assert.NotContains(t, uccs, "[B, C]")
	assert.Equal(t, float64(len(uccs)), testutil.ToFloat64(metrics.Dependencies.WithLabelValues("ucc")))
	assert.Equal(t, float64(len(fds)), testutil.ToFloat64(metrics.Dependencies.WithLabelValues("fd")))
}

func TestMinerResultIndependentOfParallelism(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rel := abcdRelation(t)

	var fingerprints []uint64
	for _, parallelism := range []int{1, 2, 8} {
		collector := sinks.NewCollector(logger)
		_, err := NewMiner(exactConfig(parallelism), logger, nil).Run(context.Background(), rel, collector)
		require.Nil(t, err)
		fingerprints = append(fingerprints, collector.Fingerprint())
	}

	assert.Equal(t, fingerprints[0], fingerprints[1])
	assert.Equal(t, fingerprints[0], fingerprints[2])
}

func TestMinerFlavours(t *testing.T) {
	tests := []struct {
		name         string
		findKeys     bool
		findFDs      bool
		searchSpaces int
	}{
		{"keys only", true, false, 1},
		{"fds only", false, true, 4},
		{"both", true, true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			cfg := exactConfig(1)
			cfg.FindKeys = tt.findKeys
			cfg.FindFDs = tt.findFDs

			collector := sinks.NewCollector(logger)
			report, err := NewMiner(cfg, logger, nil).Run(context.Background(), abcdRelation(t), collector)
			require.Nil(t, err)

			assert.Equal(t, tt.searchSpaces, report.SearchSpaces)
			assert.Equal(t, tt.findKeys, len(collector.UCCs()) > 0)
			assert.Equal(t, tt.findFDs, len(collector.FDs()) > 0)
		})
	}
}

func TestMinerErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.MaxError = 2
		_, err := NewMiner(cfg, logger, nil).Run(context.Background(), abcdRelation(t), sinks.NewCollector(logger))
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	})

	t.Run("empty relation", func(t *testing.T) {
		rel, err := relation.FromRecords("empty", nil, nil, true)
		require.Nil(t, err)

		_, err = NewMiner(config.Defaults(), logger, nil).Run(context.Background(), rel, sinks.NewCollector(logger))
		assert.Equal(t, ErrEmptyRelation, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		collector := sinks.NewCollector(logger)
		_, err := NewMiner(exactConfig(2), logger, nil).Run(ctx, abcdRelation(t), collector)
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 0, collector.Len())
	})
}
