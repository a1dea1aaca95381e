package journal

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for journal entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// GetByID returns apperr.ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error)
}
