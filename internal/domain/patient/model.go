package patient

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle statuses. Flat relation: any status may transition to any other.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusDeceased   = "deceased"
	StatusDischarged = "discharged"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeceased, StatusDischarged:
		return true
	}
	return false
}

// Patient is one care recipient with its relationship graph: the owning
// hospital, assigned nurses, primary/secondary caregivers, family members,
// and the patient's own user identity (nil when the patient has no login).
// The arrays carry set semantics: no duplicates, idempotent add.
type Patient struct {
	ID                    uuid.UUID   `db:"id" json:"id"`
	HospitalID            uuid.UUID   `db:"hospital_id" json:"hospital_id"`
	PatientUserID         *uuid.UUID  `db:"patient_user_id" json:"patient_user_id,omitempty"`
	PrimaryCaregiverID    *uuid.UUID  `db:"primary_caregiver_id" json:"primary_caregiver_id,omitempty"`
	SecondaryCaregiverIDs []uuid.UUID `db:"secondary_caregiver_ids" json:"secondary_caregiver_ids"`
	NurseIDs              []uuid.UUID `db:"nurse_ids" json:"nurse_ids"`
	FamilyMemberIDs       []uuid.UUID `db:"-" json:"family_member_ids"`
	Status                string      `db:"status" json:"status"`
	CreatedAt             time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time   `db:"updated_at" json:"updated_at"`
}

// FamilyMember is one family membership with its per-membership permission
// flags. The flags belong to the relationship, not to the user globally.
type FamilyMember struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	PatientID               uuid.UUID `db:"patient_id" json:"patient_id"`
	FamilyMemberID          uuid.UUID `db:"family_member_id" json:"family_member_id"`
	Relationship            string    `db:"relationship" json:"relationship"`
	CanMakeAppointments     bool      `db:"can_make_appointments" json:"can_make_appointments"`
	CanAccessMedicalRecords bool      `db:"can_access_medical_records" json:"can_access_medical_records"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

// StatusUpdate is the requested transition. EffectiveAt defaults to now when
// unset; it stamps the history record, independently of the patient row's
// updated_at.
type StatusUpdate struct {
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	EffectiveAt *time.Time `json:"effective_at,omitempty"`
}

// StatusResult is the post-operation view of the lifecycle state.
type StatusResult struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the display form of a linked user, resolved through the
// user directory.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// FamilyAssignment is a family membership resolved to a user summary plus its
// permission flags.
type FamilyAssignment struct {
	UserSummary
	Relationship            string `json:"relationship"`
	CanMakeAppointments     bool   `json:"can_make_appointments"`
	CanAccessMedicalRecords bool   `json:"can_access_medical_records"`
}

// Assignments is the read-only projection of a patient's relationship graph,
// resolved to user summaries.
type Assignments struct {
	PatientID           uuid.UUID          `json:"patient_id"`
	PrimaryCaregiver    *UserSummary       `json:"primary_caregiver,omitempty"`
	SecondaryCaregivers []UserSummary      `json:"secondary_caregivers"`
	Nurses              []UserSummary      `json:"nurses"`
	FamilyMembers       []FamilyAssignment `json:"family_members"`
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
