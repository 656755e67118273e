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

// Package results persists the dependencies of discovery runs in a bolt
// database, one msgpack document per run.
package results

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/weaviate/depminer/adapters/sinks"
	"github.com/weaviate/depminer/entities/lattice"
)

const (
	runsBucket = "runs"

	// DocumentVersion is bumped whenever the document layout changes.
	DocumentVersion = 1
)

var ErrVersionMismatch = errors.New("unsupported result document version")

type FD struct {
	LHS   []string `msgpack:"lhs"`
	RHS   string   `msgpack:"rhs"`
	Error float64  `msgpack:"error"`
	Score float64  `msgpack:"score"`
}

type UCC struct {
	Columns []string `msgpack:"columns"`
	Error   float64  `msgpack:"error"`
	Score   float64  `msgpack:"score"`
}

// Document is the persisted result of one run.
type Document struct {
	Version     uint32    `msgpack:"version"`
	RunID       string    `msgpack:"run_id"`
	Relation    string    `msgpack:"relation"`
	Columns     []string  `msgpack:"columns"`
	CreatedAt   time.Time `msgpack:"created_at"`
	Fingerprint uint64    `msgpack:"fingerprint"`
	FDs         []FD      `msgpack:"fds"`
	UCCs        []UCC     `msgpack:"uccs"`
}

// NewDocument snapshots the collected dependencies of a run.
func NewDocument(runID string, schema *lattice.Schema, collector *sinks.Collector) Document {
	doc := Document{
		Version:     DocumentVersion,
		RunID:       runID,
		Relation:    schema.Name(),
		CreatedAt:   time.Now().UTC(),
		Fingerprint: collector.Fingerprint(),
	}
	for _, col := range schema.Columns() {
		doc.Columns = append(doc.Columns, col.Name())
	}
	for _, fd := range collector.FDs() {
		doc.FDs = append(doc.FDs, FD{
			LHS:   columnNames(fd.LHS),
			RHS:   fd.RHS.Name(),
			Error: fd.Error,
			Score: fd.Score,
		})
	}
	for _, ucc := range collector.UCCs() {
		doc.UCCs = append(doc.UCCs, UCC{
			Columns: columnNames(ucc.Vertical),
			Error:   ucc.Error,
			Score:   ucc.Score,
		})
	}
	return doc
}

func columnNames(v lattice.Vertical) []string {
	names := make([]string, 0, v.Arity())
	for _, col := range v.Columns() {
		names = append(names, col.Name())
	}
	return names
}

type Store struct {
	db     *bolt.DB
	logger logrus.FieldLogger
}

func Open(path string, logger logrus.FieldLogger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create runs bucket")
	}

	return &Store{db: db, logger: logger.WithField("action", "results_store")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(doc Document) error {
	data, err := msgpack.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "marshal run %s", doc.RunID)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).Put([]byte(doc.RunID), data)
	})
	if err != nil {
		return errors.Wrapf(err, "store run %s", doc.RunID)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": doc.RunID,
		"fds":    len(doc.FDs),
		"uccs":   len(doc.UCCs),
		"bytes":  len(data),
	}).Debug("stored run results")
	return nil
}

// Load returns the document of runID. The boolean is false if the run is
// unknown.
func (s *Store) Load(runID string) (Document, bool, error) {
	var doc Document
	var found bool

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(runsBucket)).Get([]byte(runID))
		if data == nil {
			return nil
		}
		found = true
		return msgpack.Unmarshal(data, &doc)
	})
	if err != nil {
		return Document{}, false, errors.Wrapf(err, "load run %s", runID)
	}
	if found && doc.Version != DocumentVersion {
		return Document{}, false, errors.Wrapf(ErrVersionMismatch, "run %s has version %d", runID, doc.Version)
	}
	return doc, found, nil
}

// RunIDs lists the stored runs in key order.
func (s *Store) RunIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, errors.Wrap(err, "list runs")
}
