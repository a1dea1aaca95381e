package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/internal/domain/identity"
	"github.com/carebridge/carebridge/internal/platform/auth"
	"github.com/carebridge/carebridge/pkg/apperr"
)

// UpdateStatus transitions the patient's lifecycle state. The system log entry
// is appended on every call; the history record only when the value actually
// changed. The status write and the history append are not wrapped in one
// transaction, matching the source system's accepted failure window.
func (s *Service) UpdateStatus(ctx context.Context, patientID uuid.UUID, upd StatusUpdate, actor auth.Actor) (*StatusResult, error) {
	if !ValidStatus(upd.Status) {
		return nil, fmt.Errorf("invalid status %q", upd.Status)
	}

	current, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleSuperAdmin &&
		actor.ID != current.HospitalID && actor.HospitalID != current.HospitalID {
		return nil, apperr.Forbiddenf("actor hospital does not match patient hospital")
	}

	updatedAt, err := s.repo.UpdateStatus(ctx, patientID, upd.Status)
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, "patient_status_updated", "patient", &patientID, &actor.ID,
		map[string]interface{}{
			"from":    current.Status,
			"to":      upd.Status,
			"changed": current.Status != upd.Status,
		})

	if current.Status != upd.Status {
		effectiveAt := time.Now().UTC()
		if upd.EffectiveAt != nil {
			effectiveAt = *upd.EffectiveAt
		}
		from := current.Status
		t := Transition{
			PatientID:   patientID,
			FromStatus:  &from,
			ToStatus:    upd.Status,
			ChangedBy:   actor.ID,
			Notes:       upd.Notes,
			EffectiveAt: effectiveAt,
		}
		if err := s.history.RecordTransition(ctx, t); err != nil {
			// The status is already persisted; a lost history record is the
			// accepted inconsistency, not a reason to fail the update.
			s.logger.Error().Err(err).
				Str("patient_id", patientID.String()).
				Str("to_status", upd.Status).
				Msg("failed to record status transition")
		}
	}

	return &StatusResult{Status: upd.Status, UpdatedAt: updatedAt}, nil
}

// GetStatus returns the current lifecycle state after an evaluator grant, and
// appends a viewed entry to the system log.
func (s *Service) GetStatus(ctx context.Context, patientID uuid.UUID, actor auth.Actor) (*StatusResult, error) {
	p, err := s.EvaluateAccess(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "patient_status_viewed", "patient", &patientID, &actor.ID, nil)
	return &StatusResult{Status: p.Status, UpdatedAt: p.UpdatedAt}, nil
}
