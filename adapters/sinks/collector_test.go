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
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/depminer/entities/dependency"
	"github.com/weaviate/depminer/entities/lattice"
)

func testSchema(t *testing.T) *lattice.Schema {
	schema, err := lattice.NewSchema("collector", "A", "B", "C")
	require.Nil(t, err)
	return schema
}

func TestCollectorOrdering(t *testing.T) {
	schema := testSchema(t)
	logger, _ := test.NewNullLogger()
	c := NewCollector(logger)

	c.RegisterFD(dependency.FD{LHS: schema.VerticalOf(1), RHS: schema.Column(2)})
	c.RegisterFD(dependency.FD{LHS: schema.VerticalOf(0, 1), RHS: schema.Column(2)})
	c.RegisterFD(dependency.FD{LHS: schema.VerticalOf(2), RHS: schema.Column(0)})
	c.RegisterUCC(dependency.UCC{Vertical: schema.VerticalOf(1, 2)})
	c.RegisterUCC(dependency.UCC{Vertical: schema.VerticalOf(0)})

	fds := c.FDs()
	require.Len(t, fds, 3)
	assert.Equal(t, "[C]", fds[0].LHS.String())
	assert.Equal(t, "[A, B]", fds[1].LHS.String())
	assert.Equal(t, "[B]", fds[2].LHS.String())

	uccs := c.UCCs()
	require.Len(t, uccs, 2)
	assert.Equal(t, "[A]", uccs[0].Vertical.String())
	assert.Equal(t, "[B, C]", uccs[1].Vertical.String())
	assert.Equal(t, 5, c.Len())
}

func TestCollectorFingerprint(t *testing.T) {
	schema := testSchema(t)
	logger, _ := test.NewNullLogger()

	fds := []dependency.FD{
		{LHS: schema.VerticalOf(0), RHS: schema.Column(1), Error: 0.01},
		{LHS: schema.VerticalOf(1, 2), RHS: schema.Column(0)},
	}

	forward := NewCollector(logger)
	backward := NewCollector(logger)
	for i := range fds {
		forward.RegisterFD(fds[i])
		backward.RegisterFD(fds[len(fds)-1-i])
	}
	assert.Equal(t, forward.Fingerprint(), backward.Fingerprint())

	backward.RegisterUCC(dependency.UCC{Vertical: schema.VerticalOf(0)})
	assert.NotEqual(t, forward.Fingerprint(), backward.Fingerprint())

	empty := NewCollector(logger)
	assert.NotEqual(t, forward.Fingerprint(), empty.Fingerprint())
}

func TestCollectorConcurrentRegistration(t *testing.T) {
	schema := testSchema(t)
	logger, _ := test.NewNullLogger()
	c := NewCollector(logger)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RegisterUCC(dependency.UCC{Vertical: schema.VerticalOf(j % 3)})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, c.Len())
}
