// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sapcc/go-bits/assert"
	"github.com/sapcc/go-bits/easypg"

	"github.com/sapcc/uploadlist/internal/models"
	"github.com/sapcc/uploadlist/internal/uploadlist"
)

func TestMain(m *testing.M) {
	easypg.WithTestDB(m, func() int { return m.Run() })
}

func setupDB(t *testing.T) *uploadlist.DB {
	t.Helper()
	dbConn := easypg.ConnectForTest(t, uploadlist.DBConfiguration(),
		easypg.ClearTables("requests"),
		easypg.ResetPrimaryKeys("requests"),
	)
	return uploadlist.InitORM(dbConn)
}

func TestInsertAndListRecent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	rows, err := db.ListRecent(ctx, uploadlist.RecentRequestsLimit)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "rows in empty table", len(rows), 0)
	if rows == nil {
		t.Error("expected ListRecent to return an empty slice, but got nil")
	}

	images := [][]byte{[]byte("abc"), nil, {0xFF, 0xD8, 0xFF}, nil, []byte("e"), []byte("f")}
	for _, image := range images {
		err := db.Insert(ctx, "backend-a", models.NewRequestMeta(image), image)
		if err != nil {
			t.Fatal(err.Error())
		}
	}

	rows, err = db.ListRecent(ctx, uploadlist.RecentRequestsLimit)
	if err != nil {
		t.Fatal(err.Error())
	}
	var (
		ids      []int64
		uploaded []bool
	)
	for _, row := range rows {
		ids = append(ids, row.ID)
		uploaded = append(uploaded, row.Meta.Uploaded)
		assert.DeepEqual(t, "backend name", row.BackendName, "backend-a")
		assert.DeepEqual(t, "image", row.Image, []byte(nil))
		if row.Timestamp.IsZero() {
			t.Errorf("expected row %d to have a timestamp", row.ID)
		}
	}
	// rows inserted in the same transaction-less burst may share a timestamp,
	// so the ID breaks ties
	assert.DeepEqual(t, "IDs", ids, []int64{6, 5, 4, 3, 2})
	assert.DeepEqual(t, "uploaded flags", uploaded, []bool{true, true, false, true, false})

	// the image is stored as given, including NULL for absent images
	var stored []byte
	err = db.Db.QueryRow(`SELECT image FROM requests WHERE id = 3`).Scan(&stored)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "stored image", stored, []byte{0xFF, 0xD8, 0xFF})
	var isNull bool
	err = db.Db.QueryRow(`SELECT image IS NULL FROM requests WHERE id = 2`).Scan(&isNull)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "image is NULL", isNull, true)
}

func TestInsertRejectsEmptyBackendName(t *testing.T) {
	db := setupDB(t)

	err := db.Insert(context.Background(), "", models.NewRequestMeta(nil), nil)
	if !errors.Is(err, uploadlist.ErrEmptyBackendName) {
		t.Errorf("expected ErrEmptyBackendName, but got %v", err)
	}
	var serr *uploadlist.StorageError
	if !errors.As(err, &serr) {
		t.Errorf("expected a StorageError, but got %T", err)
	}
}

func TestPing(t *testing.T) {
	db := setupDB(t)

	before := time.Now()
	now, err := db.Ping(context.Background())
	if err != nil {
		t.Fatal(err.Error())
	}
	if now.Sub(before).Abs() > time.Minute {
		t.Errorf("expected database time close to %s, but got %s", before, now)
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	// the table already exists through the migrations
	for range 2 {
		err := db.EnsureSchema(ctx)
		if err != nil {
			t.Fatal(err.Error())
		}
	}

	err := db.Insert(ctx, "backend-a", models.NewRequestMeta([]byte("x")), []byte("x"))
	if err != nil {
		t.Fatal(err.Error())
	}
	err = db.EnsureSchema(ctx)
	if err != nil {
		t.Fatal(err.Error())
	}
	rows, err := db.ListRecent(ctx, 10)
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "row count", len(rows), 1)
}

func TestStorageErrorsWhenDatabaseIsGone(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	err := db.Db.Close()
	if err != nil {
		t.Fatal(err.Error())
	}

	_, err = db.Ping(ctx)
	assertStorageError(t, err, "cannot query database time")
	err = db.Insert(ctx, "backend-a", models.NewRequestMeta(nil), nil)
	assertStorageError(t, err, "cannot insert request")
	_, err = db.ListRecent(ctx, 5)
	assertStorageError(t, err, "cannot list recent requests")
	err = db.EnsureSchema(ctx)
	assertStorageError(t, err, "cannot begin transaction")
}

func assertStorageError(t *testing.T, err error, expectedOp string) {
	t.Helper()
	var serr *uploadlist.StorageError
	if !errors.As(err, &serr) {
		t.Errorf("expected a StorageError for %q, but got %v", expectedOp, err)
		return
	}
	assert.DeepEqual(t, "StorageError.Op", serr.Op, expectedOp)
}
