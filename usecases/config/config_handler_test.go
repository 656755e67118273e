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

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.Nil(t, Defaults().Validate())
	assert.Equal(t, DefaultSeed, Defaults().EffectiveSeed())
	assert.Positive(t, Defaults().Workers())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative max error", func(c *Config) { c.MaxError = -0.1 }},
		{"deviation above max error", func(c *Config) { c.ErrorDeviation = 0.5 }},
		{"negative max lhs", func(c *Config) { c.MaxLHS = -1 }},
		{"negative sample size", func(c *Config) { c.SampleSize = -1 }},
		{"small booster", func(c *Config) { c.SampleBooster = 0.5 }},
		{"confidence out of range", func(c *Config) { c.EstimateConfidence = 1 }},
		{"unknown order", func(c *Config) { c.LaunchPadOrder = "random" }},
		{"unknown measure", func(c *Config) { c.ErrorMeasure = "g3" }},
		{"nothing to find", func(c *Config) { c.FindKeys, c.FindFDs = false, false }},
		{"nary size", func(c *Config) { c.NaryIntersectionSize = 1 }},
		{"unknown caching", func(c *Config) { c.CachingMethod = "lru" }},
		{"coin probability", func(c *Config) { c.CachingMethod, c.CachingProbability = CachingCoin, 2 }},
		{"bounded size", func(c *Config) { c.CachingMethod, c.CacheMaxEntries = CachingBounded, 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.modify(&c)
			err := c.Validate()
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := Defaults()
	c.LaunchPadOrder = "random"
	c.ErrorMeasure = "g3"

	err := c.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "launch_pad_order")
	assert.Contains(t, err.Error(), "error_measure")
}

func TestParseConfigFile(t *testing.T) {
	t.Run("yaml on top of defaults", func(t *testing.T) {
		file := []byte("max_error: 0.05\nlaunch_pad_order: arity\nfind_keys: false\n")
		c, err := parseConfigFile(file, "depminer.yaml")
		require.Nil(t, err)

		assert.Equal(t, 0.05, c.MaxError)
		assert.Equal(t, LaunchPadOrderArity, c.LaunchPadOrder)
		assert.False(t, c.FindKeys)
		assert.Equal(t, 500, c.SampleSize)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := parseConfigFile([]byte("max_errror: 0.05\n"), "depminer.yml")
		assert.NotNil(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := parseConfigFile([]byte("{}"), "depminer.json")
		assert.NotNil(t, err)
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := parseConfigFile([]byte(""), "depminer")
		assert.NotNil(t, err)
	})
}
