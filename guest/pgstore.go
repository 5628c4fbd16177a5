package guest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PGStore persists registry snapshots in Postgres. It implements the same
// full-replace contract as FileStore: Save rewrites the guests table inside
// one transaction so readers never observe a partial roster.
type PGStore struct {
	db *sqlx.DB
}

// NewPGStore wraps an open sqlx connection.
func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

// Load reads the full roster and the manual id counter.
func (s *PGStore) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Guests: make(map[string]Record)}

	var records []Record
	if err := s.db.SelectContext(ctx, &records,
		`SELECT id, name, organization, phone, approved FROM guests`,
	); err != nil {
		return snap, fmt.Errorf("select guests: %w", err)
	}
	for _, rec := range records {
		snap.Guests[rec.ID] = rec
	}

	var seq int64
	err := s.db.GetContext(ctx, &seq,
		`SELECT value FROM registry_meta WHERE key = 'manual_seq'`,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		snap.ManualSeq = 0
	case err != nil:
		return snap, fmt.Errorf("select manual_seq: %w", err)
	default:
		snap.ManualSeq = seq
	}
	return snap, nil
}

// Save replaces the stored snapshot transactionally.
func (s *PGStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM guests`); err != nil {
		return fmt.Errorf("clear guests: %w", err)
	}
	for id, rec := range snap.Guests {
		rec.ID = id
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO guests (id, name, organization, phone, approved)
			 VALUES (:id, :name, :organization, :phone, :approved)`,
			rec,
		); err != nil {
			return fmt.Errorf("insert guest %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO registry_meta (key, value) VALUES ('manual_seq', $1)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		snap.ManualSeq,
	); err != nil {
		return fmt.Errorf("upsert manual_seq: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
