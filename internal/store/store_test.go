package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	db, err := NewDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	files, err := NewFileStore(filepath.Join(dir, "documents"))
	require.NoError(t, err)

	return New(db, files, DefaultMaxChats)
}
