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

package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `name,city,zip
alice,berlin,10115
bob,berlin,10115
carol,,
dave,,
`

func TestLoad(t *testing.T) {
	logger, _ := test.NewNullLogger()

	tests := []struct {
		name            string
		opts            Options
		expectedColumns []string
		expectedRows    int
		cityClusters    int
	}{
		{
			name:            "header, nulls agree",
			opts:            DefaultOptions(),
			expectedColumns: []string{"name", "city", "zip"},
			expectedRows:    4,
			cityClusters:    2,
		},
		{
			name:            "header, nulls differ",
			opts:            Options{Separator: ',', HasHeader: true},
			expectedColumns: []string{"name", "city", "zip"},
			expectedRows:    4,
			cityClusters:    1,
		},
		{
			name:            "no header",
			opts:            Options{HasHeader: false, NullEqualsNull: true},
			expectedColumns: []string{"column1", "column2", "column3"},
			expectedRows:    5,
			cityClusters:    2,
		},
		{
			name:            "max rows",
			opts:            Options{HasHeader: true, NullEqualsNull: true, MaxRows: 2},
			expectedColumns: []string{"name", "city", "zip"},
			expectedRows:    2,
			cityClusters:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := NewLoader(tt.opts, logger).Load("people", strings.NewReader(people))
			require.Nil(t, err)

			var names []string
			for _, col := range rel.Schema().Columns() {
				names = append(names, col.Name())
			}
			assert.Equal(t, tt.expectedColumns, names)
			assert.Equal(t, tt.expectedRows, rel.NumRows())
			assert.Equal(t, tt.cityClusters, rel.ColumnData(1).Partition().NumClusters())
		})
	}
}

func TestLoadSeparatorAndErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	rel, err := NewLoader(Options{Separator: ';', HasHeader: true}, logger).
		Load("semi", strings.NewReader("a;b\n1;2\n1;3\n"))
	require.Nil(t, err)
	assert.Equal(t, 2, rel.NumColumns())
	assert.Equal(t, 1, rel.ColumnData(0).Partition().NumClusters())

	_, err = NewLoader(DefaultOptions(), logger).Load("ragged", strings.NewReader("a,b\n1,2\n3\n"))
	assert.NotNil(t, err)

	_, err = NewLoader(DefaultOptions(), logger).Load("dupes", strings.NewReader("a,a\n1,2\n"))
	assert.NotNil(t, err)
}

func TestLoadFile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "people.csv")
	require.Nil(t, os.WriteFile(path, []byte(people), 0o644))

	rel, err := NewLoader(DefaultOptions(), logger).LoadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "people", rel.Schema().Name())
	assert.Equal(t, 4, rel.NumRows())

	_, err = NewLoader(DefaultOptions(), logger).LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.NotNil(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.Nil(t, os.WriteFile(path, nil, 0o644))

	rel, err := NewLoader(DefaultOptions(), logger).LoadFile(path)
	require.Nil(t, err)
	assert.Equal(t, 0, rel.NumColumns())
	assert.Equal(t, 0, rel.NumRows())
}
