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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/adapters/loaders/csv"
	"github.com/weaviate/depminer/adapters/repos/results"
	"github.com/weaviate/depminer/adapters/sinks"
	"github.com/weaviate/depminer/entities/lattice"
	"github.com/weaviate/depminer/usecases/discovery"
	"github.com/weaviate/depminer/usecases/monitoring"
)

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] relation.csv"

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	log, err := newLogger(opts.LogLevel, opts.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(args) != 1 {
		log.Fatal("expected exactly one relation file")
	}

	provider := memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)
	if _, err := setMemoryLimit(opts.MemoryLimitRatio, provider, log); err != nil {
		log.WithError(err).Fatal("invalid memory limit")
	}

	cfg, err := opts.config(parser)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	loader := csv.NewLoader(csv.Options{
		Separator:      opts.separator(),
		HasHeader:      !opts.NoHeader,
		NullEqualsNull: cfg.NullEqualsNull,
		MaxRows:        opts.MaxRows,
	}, log)
	rel, err := loader.LoadFile(args[0])
	if err != nil {
		log.WithError(err).Fatal("failed to load relation")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	collector := sinks.NewCollector(log)
	report, err := discovery.NewMiner(cfg, log, monitoring.NewPrometheusMetrics(registry)).
		Run(ctx, rel, collector)
	if err != nil {
		log.WithError(err).Fatal("dependency discovery failed")
	}

	printResults(os.Stdout, collector)
	log.WithFields(logrus.Fields{
		"run_id":      report.RunID,
		"took":        report.Took,
		"fds":         len(collector.FDs()),
		"uccs":        len(collector.UCCs()),
		"fingerprint": fmt.Sprintf("%016x", collector.Fingerprint()),
	}).Info("done")

	if opts.ResultsDB != "" {
		if err := storeResults(opts.ResultsDB, report.RunID, rel.Schema(), collector, log); err != nil {
			log.WithError(err).Error("failed to store results")
		}
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			log.WithError(err).Error("failed to write metrics")
		}
	}
}

func storeResults(path, runID string, schema *lattice.Schema, collector *sinks.Collector,
	log logrus.FieldLogger,
) error {
	store, err := results.Open(path, log)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(results.NewDocument(runID, schema, collector))
}

func newLogger(level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}

func printResults(w io.Writer, collector *sinks.Collector) {
	for _, fd := range collector.FDs() {
		fmt.Fprintf(w, "FD\t%s -> %s\terror=%.6f\tscore=%.6f\n", fd.LHS, fd.RHS.Name(), fd.Error, fd.Score)
	}
	for _, ucc := range collector.UCCs() {
		fmt.Fprintf(w, "UCC\t%s\terror=%.6f\tscore=%.6f\n", ucc.Vertical, ucc.Error, ucc.Score)
	}
}
