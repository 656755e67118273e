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
	"fmt"
	"os"
	"regexp"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	LaunchPadOrderError = "error"
	LaunchPadOrderArity = "arity"

	ErrorMeasureG1Prime = "g1prime"

	CachingAll     = "all"
	CachingNone    = "none"
	CachingCoin    = "coin"
	CachingBounded = "bounded"
)

// DefaultSeed is used when no seed is configured, so runs are reproducible.
const DefaultSeed int64 = 42

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the knobs of a discovery run.
type Config struct {
	MaxError              float64 `json:"max_error" yaml:"max_error"`
	ErrorDeviation        float64 `json:"error_deviation" yaml:"error_deviation"`
	MaxLHS                int     `json:"max_lhs" yaml:"max_lhs"`
	SampleSize            int     `json:"sample_size" yaml:"sample_size"`
	SampleBooster         float64 `json:"sample_booster" yaml:"sample_booster"`
	EstimateConfidence    float64 `json:"estimate_confidence" yaml:"estimate_confidence"`
	DeferFailedLaunchPads bool    `json:"defer_failed_launch_pads" yaml:"defer_failed_launch_pads"`
	Parallelism           int     `json:"parallelism" yaml:"parallelism"`
	LaunchPadOrder        string  `json:"launch_pad_order" yaml:"launch_pad_order"`
	ErrorMeasure          string  `json:"error_measure" yaml:"error_measure"`
	FindKeys              bool    `json:"find_keys" yaml:"find_keys"`
	FindFDs               bool    `json:"find_fds" yaml:"find_fds"`
	EstimateOnly          bool    `json:"estimate_only" yaml:"estimate_only"`
	CheckEstimates        bool    `json:"check_estimates" yaml:"check_estimates"`
	AscendRandomly        bool    `json:"ascend_randomly" yaml:"ascend_randomly"`
	NaryIntersectionSize  int     `json:"nary_intersection_size" yaml:"nary_intersection_size"`
	CachingMethod         string  `json:"caching_method" yaml:"caching_method"`
	CachingProbability    float64 `json:"caching_probability" yaml:"caching_probability"`
	CacheMaxEntries       int     `json:"cache_max_entries" yaml:"cache_max_entries"`
	Seed                  int64   `json:"seed" yaml:"seed"`
	NullEqualsNull        bool    `json:"null_equals_null" yaml:"null_equals_null"`
}

// Defaults returns the configuration used when nothing else is given.
func Defaults() Config {
	return Config{
		MaxError:              0.01,
		ErrorDeviation:        0,
		MaxLHS:                0,
		SampleSize:            500,
		SampleBooster:         10,
		EstimateConfidence:    0.9,
		DeferFailedLaunchPads: true,
		Parallelism:           0,
		LaunchPadOrder:        LaunchPadOrderError,
		ErrorMeasure:          ErrorMeasureG1Prime,
		FindKeys:              true,
		FindFDs:               true,
		NaryIntersectionSize:  4,
		CachingMethod:         CachingAll,
		CachingProbability:    0.5,
		CacheMaxEntries:       10000,
		NullEqualsNull:        true,
	}
}

// Workers resolves the configured parallelism.
func (c Config) Workers() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	return runtime.NumCPU()
}

// EffectiveSeed resolves the configured seed.
func (c Config) EffectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return DefaultSeed
}

// Validate the configuration
func (c Config) Validate() error {
	var result *multierror.Error

	if c.MaxError < 0 || c.MaxError > 1 {
		result = multierror.Append(result, fmt.Errorf("max_error must be in [0, 1], got %v", c.MaxError))
	}
	if c.ErrorDeviation < 0 || c.ErrorDeviation > c.MaxError {
		result = multierror.Append(result,
			fmt.Errorf("error_deviation must be in [0, max_error], got %v", c.ErrorDeviation))
	}
	if c.MaxLHS < 0 {
		result = multierror.Append(result, fmt.Errorf("max_lhs must not be negative, got %d", c.MaxLHS))
	}
	if c.SampleSize < 0 {
		result = multierror.Append(result, fmt.Errorf("sample_size must not be negative, got %d", c.SampleSize))
	}
	if c.SampleBooster < 1 {
		result = multierror.Append(result, fmt.Errorf("sample_booster must be at least 1, got %v", c.SampleBooster))
	}
	if c.EstimateConfidence <= 0 || c.EstimateConfidence >= 1 {
		result = multierror.Append(result,
			fmt.Errorf("estimate_confidence must be in (0, 1), got %v", c.EstimateConfidence))
	}
	if c.Parallelism < 0 {
		result = multierror.Append(result, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}
	switch c.LaunchPadOrder {
	case LaunchPadOrderError, LaunchPadOrderArity:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown launch_pad_order %q", c.LaunchPadOrder))
	}
	if c.ErrorMeasure != ErrorMeasureG1Prime {
		result = multierror.Append(result, fmt.Errorf("unknown error_measure %q", c.ErrorMeasure))
	}
	if !c.FindKeys && !c.FindFDs {
		result = multierror.Append(result, fmt.Errorf("at least one of find_keys and find_fds must be set"))
	}
	if c.NaryIntersectionSize < 2 {
		result = multierror.Append(result,
			fmt.Errorf("nary_intersection_size must be at least 2, got %d", c.NaryIntersectionSize))
	}
	switch c.CachingMethod {
	case CachingAll, CachingNone, CachingBounded:
	case CachingCoin:
		if c.CachingProbability < 0 || c.CachingProbability > 1 {
			result = multierror.Append(result,
				fmt.Errorf("caching_probability must be in [0, 1], got %v", c.CachingProbability))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown caching_method %q", c.CachingMethod))
	}
	if c.CachingMethod == CachingBounded && c.CacheMaxEntries < 1 {
		result = multierror.Append(result,
			fmt.Errorf("cache_max_entries must be positive, got %d", c.CacheMaxEntries))
	}

	if err := result.ErrorOrNil(); err != nil {
		return configErr(err)
	}
	return nil
}

// LoadFile reads a yaml config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config file %q", path)
	}

	return parseConfigFile(file, path)
}

func parseConfigFile(file []byte, name string) (Config, error) {
	config := Defaults()

	m := regexp.MustCompile(`.*\.(\w+)$`).FindStringSubmatch(name)
	if len(m) < 2 {
		return config, fmt.Errorf("config file does not have a file ending, got '%s'", name)
	}

	switch m[1] {
	case "yaml", "yml":
		if err := yaml.UnmarshalStrict(file, &config); err != nil {
			return config, fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	default:
		return config, fmt.Errorf("unsupported config file extension '%s', use .yaml", m[1])
	}

	return config, nil
}

func configErr(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
