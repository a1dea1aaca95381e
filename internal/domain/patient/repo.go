package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for patients and their relationship graph.
// Set mutations are single-statement atomic adds/removes; the service layer
// checks patient existence before calling them.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID loads the patient row plus its family membership ids. Returns
	// apperr.ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Patient, int, error)

	SetPrimaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error
	// ClearPrimaryCaregiver nulls the slot only when it currently holds
	// caregiverID; clearing a non-matching slot is a no-op.
	ClearPrimaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error
	AddSecondaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error
	RemoveSecondaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error
	AddNurse(ctx context.Context, patientID, nurseID uuid.UUID) error
	RemoveNurse(ctx context.Context, patientID, nurseID uuid.UUID) error

	UpsertFamilyMember(ctx context.Context, fm *FamilyMember) error
	RemoveFamilyMember(ctx context.Context, patientID, familyMemberID uuid.UUID) error
	ListFamilyMembers(ctx context.Context, patientID uuid.UUID) ([]*FamilyMember, error)

	GetStatus(ctx context.Context, patientID uuid.UUID) (*StatusResult, error)
	// UpdateStatus persists the new value, bumps updated_at, and returns the
	// new updated_at.
	UpdateStatus(ctx context.Context, patientID uuid.UUID, status string) (time.Time, error)
}
