package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error)
	// SetSupervisingNurse sets (or clears, when nurseID is nil) the
	// caregiver's supervising-nurse pointer.
	SetSupervisingNurse(ctx context.Context, caregiverID uuid.UUID, nurseID *uuid.UUID) error
	// Summaries resolves the given ids to display summaries. Unknown ids are
	// omitted from the result.
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Summary, error)
}
