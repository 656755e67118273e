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

// Package csv reads relations from delimited text files.
package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/entities/relation"
)

type Options struct {
	Separator      rune
	HasHeader      bool
	NullEqualsNull bool
	// MaxRows limits the number of data rows read, 0 reads all of them.
	MaxRows int
}

func DefaultOptions() Options {
	return Options{Separator: ',', HasHeader: true, NullEqualsNull: true}
}

type Loader struct {
	opts   Options
	logger logrus.FieldLogger
}

func NewLoader(opts Options, logger logrus.FieldLogger) *Loader {
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	return &Loader{opts: opts, logger: logger.WithField("action", "load_csv")}
}

// LoadFile maps the file at path into memory and reads it. The relation is
// named after the file.
func (l *Loader) LoadFile(path string) (*relation.Relation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	var r io.Reader = bytes.NewReader(nil)
	if fileInfo.Size() > 0 {
		contents, err := mmap.MapRegion(file, int(fileInfo.Size()), mmap.RDONLY, 0, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "mmap %s", path)
		}
		defer contents.Unmap()

		r = bytes.NewReader(contents)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rel, err := l.Load(name, r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return rel, nil
}

func (l *Loader) Load(name string, r io.Reader) (*relation.Relation, error) {
	reader := stdcsv.NewReader(r)
	reader.Comma = l.opts.Separator

	var (
		header []string
		rows   [][]string
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}

		if header == nil {
			if l.opts.HasHeader {
				header = record
				continue
			}
			header = generatedHeader(len(record))
		}

		rows = append(rows, record)
		if l.opts.MaxRows > 0 && len(rows) >= l.opts.MaxRows {
			break
		}
	}

	rel, err := relation.FromRecords(name, header, rows, l.opts.NullEqualsNull)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"relation": name,
		"columns":  rel.NumColumns(),
		"rows":     rel.NumRows(),
	}).Info("relation loaded")
	return rel, nil
}

func generatedHeader(n int) []string {
	header := make([]string, n)
	for i := range header {
		header[i] = fmt.Sprintf("column%d", i+1)
	}
	return header
}
