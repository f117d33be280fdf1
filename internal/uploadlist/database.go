// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/go-gorp/gorp/v3"
	"github.com/sapcc/go-bits/easypg"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/sqlext"

	// enable postgres driver for database/sql
	_ "github.com/lib/pq"

	"github.com/sapcc/uploadlist/internal/models"
)

// Every statement uses IF NOT EXISTS, so that EnsureSchema() can run on a
// database that was already set up by the migration (and vice versa).
var schemaSQL = `
	CREATE TABLE IF NOT EXISTS requests (
		id           BIGSERIAL   NOT NULL PRIMARY KEY,
		backend_name TEXT        NOT NULL,
		ts           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		meta         JSONB       NOT NULL,
		image        BYTEA       DEFAULT NULL
	);
	CREATE INDEX IF NOT EXISTS requests_ts_idx ON requests (ts DESC);
`

var sqlMigrations = map[string]string{
	"001_initial.up.sql": schemaSQL,
	"001_initial.down.sql": `
		DROP TABLE requests;
	`,
}

// DBConfiguration returns the easypg.Configuration object that func Connect() needs.
func DBConfiguration() easypg.Configuration {
	return easypg.Configuration{
		Migrations: sqlMigrations,
	}
}

// Connect opens the connection pool. If runMigrations is true, the schema
// migrations are applied through easypg, which requires the database to be
// reachable right now. Otherwise, connections are only established on first use.
func Connect(dbURL url.URL, runMigrations bool) (*sql.DB, error) {
	if runMigrations {
		return easypg.Connect(dbURL, DBConfiguration())
	}
	return sql.Open("postgres", dbURL.String())
}

// DB adds convenience functions on top of gorp.DbMap. It implements the
// RequestStore interface.
type DB struct {
	gorp.DbMap
}

// InitORM wraps a database connection into a DB instance.
func InitORM(dbConn *sql.DB) *DB {
	db := &DB{DbMap: gorp.DbMap{Db: dbConn, Dialect: gorp.PostgresDialect{}}}
	db.AddTableWithName(models.StoredRequest{}, "requests").SetKeys(true, "id")
	return db
}

var insertRequestQuery = sqlext.SimplifyWhitespace(`
	INSERT INTO requests (backend_name, meta, image) VALUES ($1, $2, $3)
`)

// Insert implements the RequestStore interface.
func (db *DB) Insert(ctx context.Context, backendName string, meta models.RequestMeta, image []byte) error {
	if backendName == "" {
		return wrapStorageError("cannot insert request", ErrEmptyBackendName)
	}
	_, err := db.WithContext(ctx).Exec(insertRequestQuery, backendName, meta, nullableBytes(image))
	return wrapStorageError("cannot insert request", err)
}

// nullableBytes turns a nil slice into an untyped nil. database/sql hands a
// nil []byte to the driver as an empty slice, which lib/pq writes as an empty
// bytea instead of NULL.
func nullableBytes(buf []byte) any {
	if buf == nil {
		return nil
	}
	return buf
}

var listRecentRequestsQuery = sqlext.SimplifyWhitespace(`
	SELECT id, backend_name, ts, meta
	  FROM requests
	 ORDER BY ts DESC, id DESC
	 LIMIT $1
`)

// ListRecent implements the RequestStore interface.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]models.StoredRequest, error) {
	var rows []models.StoredRequest
	_, err := db.WithContext(ctx).Select(&rows, listRecentRequestsQuery, limit)
	if err != nil {
		return nil, wrapStorageError("cannot list recent requests", err)
	}
	if rows == nil {
		rows = []models.StoredRequest{}
	}
	return rows, nil
}

// Ping implements the RequestStore interface.
func (db *DB) Ping(ctx context.Context) (time.Time, error) {
	var now time.Time
	err := db.Db.QueryRowContext(ctx, `SELECT NOW()`).Scan(&now)
	return now, wrapStorageError("cannot query database time", err)
}

// EnsureSchema implements the RequestStore interface.
func (db *DB) EnsureSchema(ctx context.Context) error {
	tx, err := db.Db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStorageError("cannot begin transaction", err)
	}
	defer sqlext.RollbackUnlessCommitted(tx)

	_, err = tx.Exec(sqlext.SimplifyWhitespace(schemaSQL))
	if err != nil {
		return wrapStorageError("cannot create schema", err)
	}
	err = tx.Commit()
	if err != nil {
		return wrapStorageError("cannot commit schema", err)
	}
	logg.Debug("schema for table requests is ready")
	return nil
}
