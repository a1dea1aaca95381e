package statushistory

import (
	"time"

	"github.com/google/uuid"
)

// Record is one immutable status transition. FromStatus is nil only for the
// very first recorded transition of a patient.
type Record struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	FromStatus  *string   `db:"from_status" json:"from_status,omitempty"`
	ToStatus    string    `db:"to_status" json:"to_status"`
	ChangedBy   uuid.UUID `db:"changed_by" json:"changed_by"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	EffectiveAt time.Time `db:"effective_at" json:"effective_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// ChangedByUser is the display summary of the changing actor, resolved at
	// query time. Never persisted.
	ChangedByUser *UserSummary `db:"-" json:"changed_by_user,omitempty"`
}

// UserSummary is the display form of the changing actor.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// Range bounds a history query on effective_at. Both bounds inclusive; nil
// means unbounded on that side.
type Range struct {
	From *time.Time
	To   *time.Time
}
