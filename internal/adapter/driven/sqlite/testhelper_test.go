package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/slotcrypt"
)

// newTestSealer returns a sealer with a fixed 32-byte AES-256 key.
func newTestSealer(t *testing.T) *slotcrypt.Sealer {
	t.Helper()
	s, err := slotcrypt.New([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return s
}

// setupTestDB returns a migrated in-memory slot database private to t.
// Both pools reach the same database through cache=shared; WAL does not
// apply to memory databases so the journal pragma is left out.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		url.PathEscape(t.Name()),
	)

	db := &DB{
		Writer: openTestPool(t, dsn, 1),
		Reader: openTestPool(t, dsn, readerConns),
		path:   dsn,
	}
	t.Cleanup(func() { _ = db.Close() })

	version, err := RunMigrations(db.Writer)
	require.NoError(t, err, "run migrations")
	require.NotZero(t, version)

	return db
}

func openTestPool(t *testing.T, dsn string, conns int) *sql.DB {
	t.Helper()
	pool, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	pool.SetMaxOpenConns(conns)
	require.NoError(t, pool.PingContext(context.Background()))
	return pool
}
