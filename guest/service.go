package guest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"guestbot/core/logger"

	"log/slog"
)

// Service is the single owner of registry state. Every mutation is a
// read-modify-write on the in-memory mapping followed by a full snapshot
// save, all under one mutex; a failed save rolls the in-memory change back
// so the durable and in-memory views cannot diverge silently.
type Service struct {
	mu        sync.Mutex
	store     Store
	guests    map[string]Record
	manualSeq int64
}

// NewService loads the snapshot from the store and returns a ready service.
func NewService(ctx context.Context, store Store) (*Service, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	logger.Info(ctx, "registry", "registry.loaded",
		slog.Int("count", len(snap.Guests)),
		slog.Int64("manual_seq", snap.ManualSeq),
	)
	return &Service{
		store:     store,
		guests:    snap.Guests,
		manualSeq: snap.ManualSeq,
	}, nil
}

// Get returns the record for id if present.
func (s *Service) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.guests[id]
	return rec, ok
}

// Count reports the number of roster entries, pending included.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guests)
}

// List returns all entries sorted by id for stable iteration.
func (s *Service) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.guests))
	for _, rec := range s.guests {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Approved returns the roster-visible entries sorted by id.
func (s *Service) Approved() []Record {
	all := s.List()
	out := all[:0]
	for _, rec := range all {
		if rec.Approved {
			out = append(out, rec)
		}
	}
	return out
}

// Register creates a pending entry for a self-registering identity.
// It fails with ErrAlreadyRegistered when any entry, pending or approved,
// already exists for the id.
func (s *Service) Register(ctx context.Context, id, name, organization, phone string) (Record, error) {
	rec := Record{
		ID:           strings.TrimSpace(id),
		Name:         strings.TrimSpace(name),
		Organization: strings.TrimSpace(organization),
		Phone:        strings.TrimSpace(phone),
		Approved:     false,
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.guests[rec.ID]; exists {
		return Record{}, ErrAlreadyRegistered
	}
	s.guests[rec.ID] = rec
	if err := s.persist(ctx); err != nil {
		delete(s.guests, rec.ID)
		return Record{}, err
	}
	logger.Info(ctx, "registry", "guest.registered",
		slog.String("guest_id", rec.ID),
		slog.String("organization", logger.SanitizeLimit(rec.Organization, 64)),
	)
	return rec, nil
}

// AddManual creates a pre-approved entry under a synthetic manual_<n> id.
// The counter is monotonic and persisted, so removing a guest never frees
// an id for reuse.
func (s *Service) AddManual(ctx context.Context, name, organization, phone string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		ID:           fmt.Sprintf("%s%d", ManualIDPrefix, s.manualSeq+1),
		Name:         strings.TrimSpace(name),
		Organization: strings.TrimSpace(organization),
		Phone:        strings.TrimSpace(phone),
		Approved:     true,
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	s.manualSeq++
	s.guests[rec.ID] = rec
	if err := s.persist(ctx); err != nil {
		delete(s.guests, rec.ID)
		s.manualSeq--
		return Record{}, err
	}
	logger.Info(ctx, "registry", "guest.added",
		slog.String("guest_id", rec.ID),
	)
	return rec, nil
}

// Approve flips a pending entry to approved. ErrNotFound when the id is
// absent, which covers the second approver racing on an already resolved
// request.
func (s *Service) Approve(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.guests[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	prev := rec
	rec.Approved = true
	s.guests[id] = rec
	if err := s.persist(ctx); err != nil {
		s.guests[id] = prev
		return Record{}, err
	}
	logger.Info(ctx, "registry", "guest.approved",
		slog.String("guest_id", id),
	)
	return rec, nil
}

// Reject deletes a pending entry. ErrNotFound when the id is absent.
func (s *Service) Reject(ctx context.Context, id string) (Record, error) {
	return s.remove(ctx, id, "guest.rejected")
}

// Remove deletes an entry regardless of approval status.
func (s *Service) Remove(ctx context.Context, id string) (Record, error) {
	return s.remove(ctx, id, "guest.removed")
}

func (s *Service) remove(ctx context.Context, id, event string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.guests[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	delete(s.guests, id)
	if err := s.persist(ctx); err != nil {
		s.guests[id] = rec
		return Record{}, err
	}
	logger.Info(ctx, "registry", event,
		slog.String("guest_id", id),
	)
	return rec, nil
}

// persist writes the current snapshot. Callers hold s.mu.
func (s *Service) persist(ctx context.Context) error {
	snap := Snapshot{
		Guests:    make(map[string]Record, len(s.guests)),
		ManualSeq: s.manualSeq,
	}
	for id, rec := range s.guests {
		snap.Guests[id] = rec
	}
	if err := s.store.Save(ctx, snap); err != nil {
		logger.Error(ctx, "registry", "registry.persist",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("persist registry: %w", err)
	}
	return nil
}
