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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentMaxError(t *testing.T) {
	factors := []struct {
		name        string
		maxError    []string
		expected    float64
		expectedErr bool
	}{
		{"Valid threshold", []string{"0.05"}, 0.05, false},
		{"not given", []string{}, 0.01, false},
		{"exact", []string{"0"}, 0, false},
		{"not parsable", []string{"I'm not a number"}, -1, true},
	}
	for _, tt := range factors {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if len(tt.maxError) == 1 {
				os.Setenv("DEPMINER_MAX_ERROR", tt.maxError[0])
			}
			conf := Defaults()
			err := FromEnv(&conf)

			if tt.expectedErr {
				require.NotNil(t, err)
			} else {
				require.Nil(t, err)
				require.Equal(t, tt.expected, conf.MaxError)
			}
		})
	}
}

func TestEnvironmentParallelism(t *testing.T) {
	factors := []struct {
		name        string
		value       []string
		expected    int
		expectedErr bool
	}{
		{"Valid", []string{"3"}, 3, false},
		{"not given", []string{}, 0, false},
		{"not parsable", []string{"three"}, -1, true},
	}
	for _, tt := range factors {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if len(tt.value) == 1 {
				os.Setenv("DEPMINER_PARALLELISM", tt.value[0])
			}
			conf := Defaults()
			err := FromEnv(&conf)

			if tt.expectedErr {
				require.NotNil(t, err)
			} else {
				require.Nil(t, err)
				require.Equal(t, tt.expected, conf.Parallelism)
			}
		})
	}
}

func TestEnvironmentFlags(t *testing.T) {
	os.Clearenv()
	os.Setenv("DEPMINER_FIND_KEYS", "false")
	os.Setenv("DEPMINER_CHECK_ESTIMATES", "on")
	os.Setenv("DEPMINER_LAUNCH_PAD_ORDER", "arity")
	os.Setenv("DEPMINER_CACHING_METHOD", "coin")
	os.Setenv("DEPMINER_SEED", "1234")

	conf := Defaults()
	require.Nil(t, FromEnv(&conf))

	assert.False(t, conf.FindKeys)
	assert.True(t, conf.FindFDs)
	assert.True(t, conf.CheckEstimates)
	assert.False(t, conf.EstimateOnly)
	assert.Equal(t, LaunchPadOrderArity, conf.LaunchPadOrder)
	assert.Equal(t, CachingCoin, conf.CachingMethod)
	assert.Equal(t, int64(1234), conf.EffectiveSeed())
}

func TestEnabled(t *testing.T) {
	for value, expected := range map[string]bool{
		"":        false,
		"on":      true,
		"enabled": true,
		"1":       true,
		"true":    true,
		"false":   false,
		"yes":     false,
	} {
		assert.Equal(t, expected, enabled(value), value)
	}
}
