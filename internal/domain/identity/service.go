package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for the user directory.
type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) CreateUser(ctx context.Context, u *User) error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	return s.users.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *Service) SearchUsers(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	return s.users.Search(ctx, params, limit, offset)
}

// SetSupervisingNurse points the caregiver at the given nurse; a nil nurseID
// clears the link.
func (s *Service) SetSupervisingNurse(ctx context.Context, caregiverID uuid.UUID, nurseID *uuid.UUID) error {
	return s.users.SetSupervisingNurse(ctx, caregiverID, nurseID)
}

// Summaries resolves ids to display summaries; unknown ids are omitted.
func (s *Service) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Summary, error) {
	return s.users.Summaries(ctx, ids)
}
