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

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoveryDisabled(t *testing.T) {
	tests := []struct {
		value    string
		disabled bool
	}{
		{"", false},
		{"on", true},
		{"enabled", true},
		{"1", true},
		{"true", true},
		{"false", false},
		{"off", false},
		{"TRUE", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DISABLE_RECOVERY_ON_PANIC", tt.value)
			assert.Equal(t, tt.disabled, recoveryDisabled())
		})
	}
}
