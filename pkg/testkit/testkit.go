// Package testkit wires the global database, storage disk and cache to
// throwaway test instances and provides helpers for driving an http.Handler.
//
//	func TestCart(t *testing.T) {
//	    testkit.SetupDB(t, migrations.Up)
//	    disk := testkit.SetupDisk(t)
//	    rec := testkit.Do(t, handler, http.MethodGet, "/api/cart", token, nil)
//	    env := testkit.Decode(t, rec)
//	}
package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopfront/storefront/pkg/cache"
	"github.com/shopfront/storefront/pkg/database"
	"github.com/shopfront/storefront/pkg/event"
	"github.com/shopfront/storefront/pkg/storage"
)

var dbSeq atomic.Int64

// SetupDB points database.DB at a fresh in-memory SQLite database, runs
// migrate against it, and restores the previous handle when t ends. Caching
// is disabled and event listeners are flushed so tests start clean.
func SetupDB(t *testing.T, migrate func(context.Context, *gorm.DB) error) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testkit%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if migrate != nil {
		require.NoError(t, migrate(context.Background(), db))
	}

	prev := database.DB
	database.DB = db
	cache.Use(nil)
	event.Flush()

	t.Cleanup(func() {
		database.DB = prev
		event.Flush()
		_ = sqlDB.Close()
	})
	return db
}

// SetupDisk registers a local disk rooted in a temp dir as the default disk.
func SetupDisk(t *testing.T) *storage.LocalDisk {
	t.Helper()
	disk := storage.NewLocalDisk(t.TempDir(), "http://localhost/storage")
	storage.RegisterDisk("local", disk)
	storage.SetDefault("local")
	return disk
}

// Envelope mirrors the JSON response body.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Do sends a request to h. body is JSON-encoded unless it is an io.Reader;
// token, when set, is sent as a bearer token.
func Do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode parses the response envelope.
func Decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

// DecodeData parses the envelope's data into dest.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) Envelope {
	t.Helper()
	env := Decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, dest), "data: %s", string(env.Data))
	return env
}
