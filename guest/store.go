package guest

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the addressed guest id is absent from the
	// registry. For the approval handshake this doubles as the "already
	// handled" signal.
	ErrNotFound = errors.New("guest: not found")
	// ErrAlreadyRegistered is returned when an identity already has a roster
	// entry, pending or approved.
	ErrAlreadyRegistered = errors.New("guest: already registered")
	// ErrInvalidRecord is returned when a record fails field validation.
	ErrInvalidRecord = errors.New("guest: invalid record")
)

// Snapshot is the full durable state of the registry. ManualSeq is the
// monotonic counter behind manual_<n> ids; it is persisted alongside the
// mapping so removals can never cause an id to be reissued.
type Snapshot struct {
	Guests    map[string]Record `json:"guests"`
	ManualSeq int64             `json:"manual_seq"`
}

// Store persists registry snapshots with full-replace semantics: Save
// overwrites whatever was stored before, Load returns an empty snapshot
// when no prior state exists.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
