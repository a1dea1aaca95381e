package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Actor is the authenticated identity performing an operation. HospitalID is
// uuid.Nil for roles without a hospital scope (super_admin, patient, family
// accounts created outside a tenant).
type Actor struct {
	ID         uuid.UUID
	Role       string
	HospitalID uuid.UUID
}

// ActorFromContext assembles the Actor from the claim values placed on the
// request context by the JWT middleware.
func ActorFromContext(ctx context.Context) (Actor, error) {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return Actor{}, fmt.Errorf("invalid actor id in token: %w", err)
	}
	actor := Actor{ID: id, Role: RoleFromContext(ctx)}
	if hid := HospitalIDFromContext(ctx); hid != "" {
		parsed, err := uuid.Parse(hid)
		if err != nil {
			return Actor{}, fmt.Errorf("invalid hospital id in token: %w", err)
		}
		actor.HospitalID = parsed
	}
	return actor, nil
}
