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
	"strconv"

	"github.com/pkg/errors"
)

const envPrefix = "DEPMINER_"

// FromEnv takes a *Config as it will respect initial config that has been
// provided by other means (e.g. a config file) and will only extend those that
// are set
func FromEnv(config *Config) error {
	if err := parseFloat("MAX_ERROR", &config.MaxError); err != nil {
		return err
	}
	if err := parseFloat("ERROR_DEVIATION", &config.ErrorDeviation); err != nil {
		return err
	}
	if err := parseInt("MAX_LHS", &config.MaxLHS); err != nil {
		return err
	}
	if err := parseInt("SAMPLE_SIZE", &config.SampleSize); err != nil {
		return err
	}
	if err := parseFloat("SAMPLE_BOOSTER", &config.SampleBooster); err != nil {
		return err
	}
	if err := parseFloat("ESTIMATE_CONFIDENCE", &config.EstimateConfidence); err != nil {
		return err
	}
	if err := parseInt("PARALLELISM", &config.Parallelism); err != nil {
		return err
	}
	if err := parseInt("NARY_INTERSECTION_SIZE", &config.NaryIntersectionSize); err != nil {
		return err
	}
	if err := parseFloat("CACHING_PROBABILITY", &config.CachingProbability); err != nil {
		return err
	}
	if err := parseInt("CACHE_MAX_ENTRIES", &config.CacheMaxEntries); err != nil {
		return err
	}

	if v := os.Getenv(envPrefix + "SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "parse %sSEED as int", envPrefix)
		}
		config.Seed = seed
	}

	if v := os.Getenv(envPrefix + "LAUNCH_PAD_ORDER"); v != "" {
		config.LaunchPadOrder = v
	}
	if v := os.Getenv(envPrefix + "ERROR_MEASURE"); v != "" {
		config.ErrorMeasure = v
	}
	if v := os.Getenv(envPrefix + "CACHING_METHOD"); v != "" {
		config.CachingMethod = v
	}

	parseBool("DEFER_FAILED_LAUNCH_PADS", &config.DeferFailedLaunchPads)
	parseBool("FIND_KEYS", &config.FindKeys)
	parseBool("FIND_FDS", &config.FindFDs)
	parseBool("NULL_EQUALS_NULL", &config.NullEqualsNull)

	if enabled(os.Getenv(envPrefix + "ESTIMATE_ONLY")) {
		config.EstimateOnly = true
	}
	if enabled(os.Getenv(envPrefix + "CHECK_ESTIMATES")) {
		config.CheckEstimates = true
	}
	if enabled(os.Getenv(envPrefix + "ASCEND_RANDOMLY")) {
		config.AscendRandomly = true
	}

	return nil
}

func parseFloat(name string, target *float64) error {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrapf(err, "parse %s%s as float", envPrefix, name)
	}
	*target = f
	return nil
}

func parseInt(name string, target *int) error {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s%s as int", envPrefix, name)
	}
	*target = i
	return nil
}

// parseBool only touches target when the variable is set, so defaults that
// are on can be switched off.
func parseBool(name string, target *bool) {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return
	}
	*target = enabled(v)
}

func enabled(value string) bool {
	if value == "" {
		return false
	}

	if value == "on" ||
		value == "enabled" ||
		value == "1" ||
		value == "true" {
		return true
	}

	return false
}
