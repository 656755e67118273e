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
	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// setMemoryLimit sets GOMEMLIMIT to ratio of the limit reported by provider.
// A ratio of 0 leaves the runtime untouched.
func setMemoryLimit(ratio float64, provider memlimit.Provider, log logrus.FieldLogger) (int64, error) {
	if ratio <= 0 {
		return 0, nil
	}
	if ratio > 1 {
		return 0, errors.Errorf("memory limit ratio must be in (0, 1], got %v", ratio)
	}

	limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(ratio),
		memlimit.WithProvider(provider),
	)
	if err != nil {
		if errors.Is(err, memlimit.ErrNoLimit) {
			log.WithField("action", "set_memory_limit").Debug("no memory limit found")
			return 0, nil
		}
		return 0, errors.Wrap(err, "set memory limit")
	}

	log.WithFields(logrus.Fields{
		"action": "set_memory_limit",
		"limit":  limit,
		"ratio":  ratio,
	}).Info("memory limit set")
	return limit, nil
}
