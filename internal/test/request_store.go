// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/sapcc/uploadlist/internal/models"
	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// ErrConnectionRefused is what RequestStore returns for operations that were
// told to fail with FailOn().
var ErrConnectionRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// Operation names accepted by RequestStore.FailOn().
const (
	OpInsert       = "insert"
	OpListRecent   = "list"
	OpPing         = "ping"
	OpEnsureSchema = "schema"
)

// RequestStore is a uploadlist.RequestStore for use in test suites. It keeps
// all rows in RAM. Each insert steps the clock by one second, so that rows
// have distinct timestamps.
type RequestStore struct {
	Clock *Clock

	mutex         sync.Mutex
	rows          []models.StoredRequest
	failingOps    map[string]bool
	schemaCreated bool
	calls         []string
}

// NewRequestStore builds an empty RequestStore.
func NewRequestStore() *RequestStore {
	return &RequestStore{
		Clock:      &Clock{},
		failingOps: make(map[string]bool),
	}
}

// FailOn makes all subsequent calls of the given operations fail with
// ErrConnectionRefused.
func (s *RequestStore) FailOn(ops ...string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, op := range ops {
		s.failingOps[op] = true
	}
}

// Rows returns a copy of all stored rows in insertion order, including images.
func (s *RequestStore) Rows() []models.StoredRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Clone(s.rows)
}

// Calls returns the names of all operations that were called so far.
func (s *RequestStore) Calls() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Clone(s.calls)
}

// SchemaCreated returns whether EnsureSchema() has succeeded at least once.
func (s *RequestStore) SchemaCreated() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.schemaCreated
}

// must be called with s.mutex held
func (s *RequestStore) enter(op, errorOp string) error {
	s.calls = append(s.calls, op)
	if s.failingOps[op] {
		return &uploadlist.StorageError{Op: errorOp, Inner: ErrConnectionRefused}
	}
	return nil
}

// Insert implements the uploadlist.RequestStore interface.
func (s *RequestStore) Insert(ctx context.Context, backendName string, meta models.RequestMeta, image []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.enter(OpInsert, "cannot insert request")
	if err != nil {
		return err
	}
	if backendName == "" {
		return &uploadlist.StorageError{Op: "cannot insert request", Inner: uploadlist.ErrEmptyBackendName}
	}

	s.Clock.Step()
	s.rows = append(s.rows, models.StoredRequest{
		ID:          int64(len(s.rows) + 1),
		BackendName: backendName,
		Timestamp:   s.Clock.Now(),
		Meta:        meta,
		Image:       slices.Clone(image),
	})
	return nil
}

// ListRecent implements the uploadlist.RequestStore interface.
func (s *RequestStore) ListRecent(ctx context.Context, limit int) ([]models.StoredRequest, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.enter(OpListRecent, "cannot list recent requests")
	if err != nil {
		return nil, err
	}

	result := []models.StoredRequest{}
	for idx := len(s.rows) - 1; idx >= 0 && len(result) < limit; idx-- {
		row := s.rows[idx]
		row.Image = nil // not selected, same as in the real DB
		result = append(result, row)
	}
	return result, nil
}

// Ping implements the uploadlist.RequestStore interface.
func (s *RequestStore) Ping(ctx context.Context) (time.Time, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.enter(OpPing, "cannot query database time")
	if err != nil {
		return time.Time{}, err
	}
	return s.Clock.Now(), nil
}

// EnsureSchema implements the uploadlist.RequestStore interface.
func (s *RequestStore) EnsureSchema(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.enter(OpEnsureSchema, "cannot create schema")
	if err != nil {
		return err
	}
	s.schemaCreated = true
	return nil
}
