package ports

import (
	"context"
	"drone-dispatch-service/internal/domain"
)

// Port: a boundary for persisting reference data in a SQL store.
type ReferenceRepository interface {
	ReferenceDataSource
	// Replace all stored reference data with ref.
	Save(ctx context.Context, ref *domain.ReferenceData) error
}
