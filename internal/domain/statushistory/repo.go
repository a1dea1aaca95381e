package statushistory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for the status history ledger. Append-only:
// records are never updated or deleted.
type Repository interface {
	Insert(ctx context.Context, r *Record) error
	// ListByPatient returns records with effective_at inside the inclusive
	// range, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, rng Range, limit, offset int) ([]*Record, int, error)
}
