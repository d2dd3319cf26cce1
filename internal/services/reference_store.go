package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/platform/obs"
	"drone-dispatch-service/internal/ports"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Delay before retrying after a failed refresh while an older snapshot is served.
const refreshRetryDelay = 30 * time.Second

// ReferenceStore serves the reference snapshot in force and reloads it from a
// source once it is older than ttl.
//
// Readers never block on a fresh snapshot: a reload builds a complete new
// snapshot and publishes it with a single pointer swap, so in-flight planning
// calls keep the snapshot they started with. A failed reload keeps serving the
// previous snapshot. A ttl of zero loads once and never refreshes.
//
// The store is safe for concurrent use.
type ReferenceStore struct {
	source ports.ReferenceDataSource
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time

	current     atomic.Pointer[domain.ReferenceData]
	nextRefresh atomic.Int64 // unix nanoseconds

	mu sync.Mutex
}

// NewReferenceStore returns a store that loads from source lazily on first use.
func NewReferenceStore(source ports.ReferenceDataSource, ttl time.Duration, log *zap.Logger) *ReferenceStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReferenceStore{
		source: source,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Snapshot returns the reference data in force, loading it first when none
// has been loaded or the current one is older than the ttl.
func (s *ReferenceStore) Snapshot(ctx context.Context) (*domain.ReferenceData, error) {
	if ref := s.current.Load(); ref != nil && !s.stale() {
		return ref, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have published while we waited.
	if ref := s.current.Load(); ref != nil && !s.stale() {
		return ref, nil
	}

	return s.reload(ctx)
}

// Refresh reloads unconditionally.
func (s *ReferenceStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.reload(ctx)
	return err
}

// reload must be called with mu held.
func (s *ReferenceStore) reload(ctx context.Context) (*domain.ReferenceData, error) {
	if s.source == nil {
		return nil, errors.New("reference store: source is nil")
	}

	fresh, err := s.load(ctx)
	if err != nil {
		if old := s.current.Load(); old != nil {
			s.log.Warn("reference refresh failed, serving previous snapshot",
				zap.Time("loaded_at", old.LoadedAt),
				zap.Error(err),
			)
			s.nextRefresh.Store(s.now().Add(min(s.ttl, refreshRetryDelay)).UnixNano())
			return old, nil
		}
		return nil, fmt.Errorf("reference store: %w", err)
	}

	if fresh.LoadedAt.IsZero() {
		fresh.LoadedAt = s.now()
	}

	s.current.Store(fresh)
	s.nextRefresh.Store(s.now().Add(s.ttl).UnixNano())
	return fresh, nil
}

func (s *ReferenceStore) load(ctx context.Context) (ref *domain.ReferenceData, err error) {
	defer obs.Time(ctx, s.log, "load reference data")(&err)

	ref, err = s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, errors.New("source returned no reference data")
	}
	return ref, nil
}

func (s *ReferenceStore) stale() bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().UnixNano() >= s.nextRefresh.Load()
}
