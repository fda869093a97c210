package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_WALMode(t *testing.T) {
	st := newTestSQLiteStore(t)

	var mode string
	err := st.db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	want := testBundle()
	require.NoError(t, st.Save(ctx, "widget_x", want))

	got, err := st.Load(ctx, "widget_x")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLite_LoadMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SaveOverwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "widget_x", testBundle()))

	updated := testBundle()
	updated.Price = "₹19,999"
	require.NoError(t, st.Save(ctx, "widget_x", updated))

	got, err := st.Load(ctx, "widget_x")
	require.NoError(t, err)
	assert.Equal(t, "₹19,999", got.Price)
}
