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

package sinks

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spaolacci/murmur3"
	"golang.org/x/exp/slices"

	"github.com/weaviate/depminer/entities/dependency"
)

// Collector keeps every registered dependency in memory. It is safe for
// concurrent use by the workers of a run.
type Collector struct {
	logger logrus.FieldLogger

	mu   sync.Mutex
	fds  []dependency.FD
	uccs []dependency.UCC
}

func NewCollector(logger logrus.FieldLogger) *Collector {
	return &Collector{logger: logger.WithField("action", "collect_dependencies")}
}

func (c *Collector) RegisterFD(fd dependency.FD) {
	c.mu.Lock()
	c.fds = append(c.fds, fd)
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"lhs":   fd.LHS.String(),
		"rhs":   fd.RHS.Name(),
		"error": fd.Error,
		"score": fd.Score,
	}).Debug("functional dependency discovered")
}

func (c *Collector) RegisterUCC(ucc dependency.UCC) {
	c.mu.Lock()
	c.uccs = append(c.uccs, ucc)
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"columns": ucc.Vertical.String(),
		"error":   ucc.Error,
		"score":   ucc.Score,
	}).Debug("unique column combination discovered")
}

// FDs returns the functional dependencies ordered by RHS and then LHS.
func (c *Collector) FDs() []dependency.FD {
	c.mu.Lock()
	fds := make([]dependency.FD, len(c.fds))
	copy(fds, c.fds)
	c.mu.Unlock()

	slices.SortFunc(fds, func(a, b dependency.FD) int {
		if a.RHS.Index() != b.RHS.Index() {
			return a.RHS.Index() - b.RHS.Index()
		}
		return a.LHS.Compare(b.LHS)
	})
	return fds
}

// UCCs returns the unique column combinations in lexicographic order.
func (c *Collector) UCCs() []dependency.UCC {
	c.mu.Lock()
	uccs := make([]dependency.UCC, len(c.uccs))
	copy(uccs, c.uccs)
	c.mu.Unlock()

	slices.SortFunc(uccs, func(a, b dependency.UCC) int {
		return a.Vertical.Compare(b.Vertical)
	})
	return uccs
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.fds) + len(c.uccs)
}

// Fingerprint hashes the structure of the result set, ignoring errors and
// the order of registration. Two runs finding the same dependencies share a
// fingerprint.
func (c *Collector) Fingerprint() uint64 {
	h := murmur3.New64()
	for _, fd := range c.FDs() {
		fmt.Fprintf(h, "fd %v -> %d\n", fd.LHS.Indices(), fd.RHS.Index())
	}
	for _, ucc := range c.UCCs() {
		fmt.Fprintf(h, "ucc %v\n", ucc.Vertical.Indices())
	}
	return h.Sum64()
}
