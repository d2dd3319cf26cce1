package ports

import (
	"context"
	"drone-dispatch-service/internal/domain"
)

// Contract for loading a complete fleet and obstacle snapshot.
type ReferenceDataSource interface {
	// Return a freshly loaded, validated snapshot.
	Load(ctx context.Context) (*domain.ReferenceData, error)
}

// Port: the reference data currently in force for planning.
type ReferenceProvider interface {
	// Return the current snapshot. Callers must treat it as read-only.
	Snapshot(ctx context.Context) (*domain.ReferenceData, error)
}
