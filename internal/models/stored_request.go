// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"time"
)

// StoredRequest contains a record from the `requests` table.
//
// Rows are append-only: this service never updates or deletes them. The ID and
// the timestamp are assigned by the database on insert.
type StoredRequest struct {
	ID          int64       `db:"id" json:"id"`
	BackendName string      `db:"backend_name" json:"backend_name"`
	Timestamp   time.Time   `db:"ts" json:"ts"`
	Meta        RequestMeta `db:"meta" json:"meta"`
	// Image is not selected by the listing query, so it is usually nil when read back.
	Image []byte `db:"image" json:"-"`
}
