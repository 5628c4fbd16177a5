package guest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "guests.json"))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Guests)
	assert.Zero(t, snap.ManualSeq)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "guests.json")
	store := NewFileStore(path)

	snap := Snapshot{
		Guests: map[string]Record{
			"42":       {ID: "42", Name: "Alice", Organization: "ACME", Phone: "+7999", Approved: false},
			"manual_1": {ID: "manual_1", Name: "Bob", Organization: "Org", Phone: "+7001", Approved: true},
		},
		ManualSeq: 1,
	}
	require.NoError(t, store.Save(context.Background(), snap))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Guests, got.Guests)
	assert.Equal(t, int64(1), got.ManualSeq)
}

func TestFileStoreBackfillsIDsFromKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guests.json")
	raw := `{"guests":{"42":{"name":"Alice","organization":"ACME","phone":"+7999","approved":true}},"manual_seq":0}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	snap, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Contains(t, snap.Guests, "42")
	assert.Equal(t, "42", snap.Guests["42"].ID)
}

func TestFileStoreCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guests.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileStoreSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guests.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), Snapshot{
		Guests:    map[string]Record{"1": {ID: "1", Name: "A", Organization: "O", Phone: "+1"}},
		ManualSeq: 0,
	}))
	require.NoError(t, store.Save(context.Background(), Snapshot{
		Guests:    map[string]Record{"2": {ID: "2", Name: "B", Organization: "O", Phone: "+2"}},
		ManualSeq: 5,
	}))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, snap.Guests, "1")
	assert.Contains(t, snap.Guests, "2")

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "guests.json", entries[0].Name())
}
