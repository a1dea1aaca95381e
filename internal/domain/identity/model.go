package identity

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. Every user has exactly one; the role is immutable
// once assigned.
const (
	RoleSuperAdmin = "super_admin"
	RoleHospital   = "hospital"
	RoleNurse      = "nurse"
	RoleCaregiver  = "caregiver"
	RoleFamily     = "family"
	RolePatient    = "patient"
)

var validRoles = map[string]bool{
	RoleSuperAdmin: true,
	RoleHospital:   true,
	RoleNurse:      true,
	RoleCaregiver:  true,
	RoleFamily:     true,
	RolePatient:    true,
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return validRoles[r]
}

// User maps to the users table. HospitalID scopes hospital-bound roles;
// SupervisingNurseID links a caregiver to the nurse overseeing them,
// independent of any patient linkage.
type User struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	FullName           string     `db:"full_name" json:"full_name"`
	Role               string     `db:"role" json:"role"`
	HospitalID         *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	SupervisingNurseID *uuid.UUID `db:"supervising_nurse_id" json:"supervising_nurse_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Summary is the display-friendly projection of a user embedded in
// assignment and history responses.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
