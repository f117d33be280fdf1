// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"context"
	"time"

	"github.com/sapcc/uploadlist/internal/models"
)

const (
	// MaxRequestBodySize is the largest request body that the API accepts.
	MaxRequestBodySize int64 = 50 << 20
	// RecentRequestsLimit is how many rows the upload endpoint returns.
	RecentRequestsLimit = 5
)

// RequestStore is the storage client used by the API handlers. The
// implementation for production use is type DB. All errors returned by a
// RequestStore are of type *StorageError.
//
// Insert and ListRecent are not wrapped in a common transaction: concurrent
// callers may or may not see each other's rows in ListRecent.
type RequestStore interface {
	// Insert appends one row. A nil image is stored as NULL.
	Insert(ctx context.Context, backendName string, meta models.RequestMeta, image []byte) error
	// ListRecent returns at most `limit` rows, newest first. The Image field is not populated.
	ListRecent(ctx context.Context, limit int) ([]models.StoredRequest, error)
	// Ping returns the current time as reported by the database.
	Ping(ctx context.Context) (time.Time, error)
	// EnsureSchema creates the `requests` table if it does not exist yet.
	EnsureSchema(ctx context.Context) error
}
