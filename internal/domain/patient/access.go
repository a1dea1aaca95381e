package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/internal/domain/identity"
	"github.com/carebridge/carebridge/internal/platform/auth"
	"github.com/carebridge/carebridge/pkg/apperr"
)

// EvaluateAccess is the access control evaluator: it loads the patient's
// relationship graph and decides whether the actor may touch patient-scoped
// data. NotFound (patient absent) is checked before any role evaluation.
// Pure read, no audit side effect.
func (s *Service) EvaluateAccess(ctx context.Context, actor auth.Actor, patientID uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if err := CheckAccess(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckAccess applies the role decision table against a loaded relationship
// graph. Any role not in the table is denied.
func CheckAccess(actor auth.Actor, p *Patient) error {
	switch actor.Role {
	case identity.RoleSuperAdmin:
		return nil
	case identity.RoleHospital:
		// The actor may be the hospital identity itself or a hospital-scoped
		// account of the same hospital.
		if actor.ID == p.HospitalID || actor.HospitalID == p.HospitalID {
			return nil
		}
	case identity.RoleNurse:
		if containsID(p.NurseIDs, actor.ID) {
			return nil
		}
	case identity.RoleCaregiver:
		if p.PrimaryCaregiverID != nil && *p.PrimaryCaregiverID == actor.ID {
			return nil
		}
		if containsID(p.SecondaryCaregiverIDs, actor.ID) {
			return nil
		}
	case identity.RoleFamily:
		if containsID(p.FamilyMemberIDs, actor.ID) {
			return nil
		}
	case identity.RolePatient:
		if p.PatientUserID != nil && *p.PatientUserID == actor.ID {
			return nil
		}
	}
	return apperr.Forbiddenf("access to patient %s denied for role %s", p.ID, actor.Role)
}
