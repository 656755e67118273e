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

package main

import (
	"unicode/utf8"

	"github.com/jessevdk/go-flags"

	"github.com/weaviate/depminer/usecases/config"
)

// Options represents command line options. Flags that are set override the
// config file and the environment.
type Options struct {
	ConfigFile  string `long:"config" short:"c" description:"path to a YAML config file"`
	LogLevel    string `long:"log-level" description:"logrus level" default:"info"`
	LogFormat   string `long:"log-format" description:"text or json" default:"text"`
	MetricsFile string `long:"metrics-file" description:"write prometheus metrics to this file after the run"`
	ResultsDB   string `long:"results-db" description:"store the results in this bolt database, keyed by run id"`

	MemoryLimitRatio float64 `long:"memory-limit-ratio" description:"set GOMEMLIMIT to this share of the cgroup or system memory, 0 disables" default:"0.9"`

	Separator string `long:"separator" description:"field separator of the relation file" default:","`
	NoHeader  bool   `long:"no-header" description:"the relation file has no header line"`
	MaxRows   int    `long:"max-rows" description:"read at most this many rows"`

	MaxError       float64 `long:"max-error" description:"dependency error threshold"`
	ErrorDeviation float64 `long:"error-deviation" description:"band around the threshold"`
	MaxLHS         int     `long:"max-lhs" description:"maximum LHS arity, 0 is unbounded"`
	SampleSize     int     `long:"sample-size" description:"agree set sample size, 0 disables sampling"`
	Parallelism    int     `long:"parallelism" short:"p" description:"number of workers, 0 uses all CPUs"`
	LaunchPadOrder string  `long:"launch-pad-order" description:"error or arity" choice:"error" choice:"arity"`
	CachingMethod  string  `long:"caching-method" description:"partition caching" choice:"all" choice:"none" choice:"coin" choice:"bounded"`
	Seed           int64   `long:"seed" description:"random seed"`
	NoKeys         bool    `long:"no-keys" description:"skip unique column combinations"`
	NoFDs          bool    `long:"no-fds" description:"skip functional dependencies"`
	CheckEstimates bool    `long:"check-estimates" description:"verify every minimal dependency"`
	NullDistinct   bool    `long:"null-distinct" description:"treat two nulls as different values"`
}

func (o Options) config(parser *flags.Parser) (config.Config, error) {
	cfg := config.Defaults()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = config.LoadFile(o.ConfigFile); err != nil {
			return cfg, err
		}
	}
	if err := config.FromEnv(&cfg); err != nil {
		return cfg, err
	}

	isSet := func(name string) bool {
		opt := parser.FindOptionByLongName(name)
		return opt != nil && opt.IsSet()
	}

	if isSet("max-error") {
		cfg.MaxError = o.MaxError
	}
	if isSet("error-deviation") {
		cfg.ErrorDeviation = o.ErrorDeviation
	}
	if isSet("max-lhs") {
		cfg.MaxLHS = o.MaxLHS
	}
	if isSet("sample-size") {
		cfg.SampleSize = o.SampleSize
	}
	if isSet("parallelism") {
		cfg.Parallelism = o.Parallelism
	}
	if isSet("launch-pad-order") {
		cfg.LaunchPadOrder = o.LaunchPadOrder
	}
	if isSet("caching-method") {
		cfg.CachingMethod = o.CachingMethod
	}
	if isSet("seed") {
		cfg.Seed = o.Seed
	}
	if o.NoKeys {
		cfg.FindKeys = false
	}
	if o.NoFDs {
		cfg.FindFDs = false
	}
	if o.CheckEstimates {
		cfg.CheckEstimates = true
	}
	if o.NullDistinct {
		cfg.NullEqualsNull = false
	}

	return cfg, cfg.Validate()
}

func (o Options) separator() rune {
	if r, size := utf8.DecodeRuneInString(o.Separator); size > 0 {
		return r
	}
	return ','
}
