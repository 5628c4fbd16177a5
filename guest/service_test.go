package guest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps snapshots in memory and can be told to fail saves.
type memStore struct {
	snap     Snapshot
	failSave error
	saves    int
}

func (m *memStore) Load(context.Context) (Snapshot, error) {
	if m.snap.Guests == nil {
		m.snap.Guests = make(map[string]Record)
	}
	return m.snap, nil
}

func (m *memStore) Save(_ context.Context, snap Snapshot) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.snap = snap
	return nil
}

func newTestService(t *testing.T, store *memStore) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), store)
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesPendingEntry(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)

	rec, err := svc.Register(context.Background(), "42", "Alice", "ACME", "+79991234567")
	require.NoError(t, err)
	assert.False(t, rec.Approved)

	got, ok := svc.Get("42")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "ACME", got.Organization)
	assert.False(t, got.Approved)

	_, saved := store.snap.Guests["42"]
	assert.True(t, saved)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc := newTestService(t, &memStore{})

	_, err := svc.Register(context.Background(), "42", "Alice", "ACME", "+7999")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "42", "Alice Again", "Other", "+7000")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, svc.Count())
}

func TestRegisterValidatesPhone(t *testing.T) {
	svc := newTestService(t, &memStore{})

	for _, phone := range []string{"", "7999", "+7 999", "+7999a", "plus7999"} {
		_, err := svc.Register(context.Background(), "42", "Alice", "ACME", phone)
		assert.ErrorIs(t, err, ErrInvalidRecord, "phone %q", phone)
	}
	assert.Equal(t, 0, svc.Count())
}

func TestApproveFlipsPendingOnce(t *testing.T) {
	svc := newTestService(t, &memStore{})
	_, err := svc.Register(context.Background(), "42", "Alice", "ACME", "+7999")
	require.NoError(t, err)

	rec, err := svc.Approve(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, rec.Approved)

	// Approve is idempotent on a still-present entry.
	rec, err = svc.Approve(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, rec.Approved)
}

func TestApproveUnknownIsNotFound(t *testing.T) {
	svc := newTestService(t, &memStore{})
	_, err := svc.Approve(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectDeletesEntry(t *testing.T) {
	svc := newTestService(t, &memStore{})
	_, err := svc.Register(context.Background(), "42", "Alice", "ACME", "+7999")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Count())

	// The racing second resolution sees absence.
	_, err = svc.Reject(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Approve(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddManualAssignsMonotonicIDs(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)

	first, err := svc.AddManual(context.Background(), "Bob", "Org", "+7001")
	require.NoError(t, err)
	assert.Equal(t, "manual_1", first.ID)
	assert.True(t, first.Approved)

	second, err := svc.AddManual(context.Background(), "Carol", "Org", "+7002")
	require.NoError(t, err)
	assert.Equal(t, "manual_2", second.ID)

	// Removal never frees an id for reuse.
	_, err = svc.Remove(context.Background(), "manual_2")
	require.NoError(t, err)
	third, err := svc.AddManual(context.Background(), "Dave", "Org", "+7003")
	require.NoError(t, err)
	assert.Equal(t, "manual_3", third.ID)

	assert.Equal(t, int64(3), store.snap.ManualSeq)
}

func TestManualSeqSurvivesReload(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)

	_, err := svc.AddManual(context.Background(), "Bob", "Org", "+7001")
	require.NoError(t, err)
	_, err = svc.Remove(context.Background(), "manual_1")
	require.NoError(t, err)

	reloaded := newTestService(t, store)
	rec, err := reloaded.AddManual(context.Background(), "Carol", "Org", "+7002")
	require.NoError(t, err)
	assert.Equal(t, "manual_2", rec.ID)
}

func TestPersistFailureRollsBack(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	_, err := svc.Register(context.Background(), "42", "Alice", "ACME", "+7999")
	require.NoError(t, err)

	saveErr := errors.New("disk full")
	store.failSave = saveErr

	_, err = svc.Register(context.Background(), "43", "Bob", "Org", "+7001")
	require.ErrorIs(t, err, saveErr)
	_, ok := svc.Get("43")
	assert.False(t, ok, "failed register must roll back")

	_, err = svc.AddManual(context.Background(), "Carol", "Org", "+7002")
	require.ErrorIs(t, err, saveErr)
	assert.Equal(t, 1, svc.Count())

	_, err = svc.Approve(context.Background(), "42")
	require.ErrorIs(t, err, saveErr)
	got, _ := svc.Get("42")
	assert.False(t, got.Approved, "failed approve must roll back")

	_, err = svc.Remove(context.Background(), "42")
	require.ErrorIs(t, err, saveErr)
	_, ok = svc.Get("42")
	assert.True(t, ok, "failed remove must roll back")

	// Recovery: the same manual id is handed out again after the
	// rolled-back attempt.
	store.failSave = nil
	rec, err := svc.AddManual(context.Background(), "Carol", "Org", "+7002")
	require.NoError(t, err)
	assert.Equal(t, "manual_1", rec.ID)
}

func TestListAndApprovedSortedByID(t *testing.T) {
	svc := newTestService(t, &memStore{})
	_, err := svc.Register(context.Background(), "9", "Nine", "Org", "+79")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "10", "Ten", "Org", "+710")
	require.NoError(t, err)
	_, err = svc.AddManual(context.Background(), "Manual", "Org", "+7001")
	require.NoError(t, err)

	all := svc.List()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"10", "9", "manual_1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	approved := svc.Approved()
	require.Len(t, approved, 1)
	assert.Equal(t, "manual_1", approved[0].ID)
}
