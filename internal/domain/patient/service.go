package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebridge/carebridge/internal/platform/auth"
)

// Directory resolves user ids to display summaries. Backed by the user
// directory service; decoupled through this interface so the package does not
// import it.
type Directory interface {
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserSummary, error)
}

// CaregiverLinker mutates the caregiver's supervising-nurse pointer on the
// user record. Returns apperr.ErrNotFound when the caregiver user is absent.
type CaregiverLinker interface {
	SetSupervisingNurse(ctx context.Context, caregiverID uuid.UUID, nurseID *uuid.UUID) error
}

// AuditSink appends system log entries. Fire and forget: implementations must
// never fail the calling operation.
type AuditSink interface {
	Append(ctx context.Context, action, entityType string, entityID, performedBy *uuid.UUID, metadata map[string]interface{})
}

// Transition is one status change handed to the history ledger.
type Transition struct {
	PatientID   uuid.UUID
	FromStatus  *string
	ToStatus    string
	ChangedBy   uuid.UUID
	Notes       string
	EffectiveAt time.Time
}

// HistoryRecorder appends status transitions to the history ledger.
type HistoryRecorder interface {
	RecordTransition(ctx context.Context, t Transition) error
}

// Service owns the patient relationship graph, the access control evaluator,
// the assignment manager, and the status lifecycle.
type Service struct {
	repo    Repository
	users   Directory
	links   CaregiverLinker
	audit   AuditSink
	history HistoryRecorder
	logger  zerolog.Logger
}

func NewService(repo Repository, users Directory, links CaregiverLinker,
	audit AuditSink, history HistoryRecorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		links:   links,
		audit:   audit,
		history: history,
		logger:  logger,
	}
}

// Create onboards a patient. Status defaults to active.
func (s *Service) Create(ctx context.Context, p *Patient, actor auth.Actor) (*Patient, error) {
	if p.HospitalID == uuid.Nil {
		return nil, fmt.Errorf("hospital_id is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !ValidStatus(p.Status) {
		return nil, fmt.Errorf("invalid status %q", p.Status)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "patient_created", "patient", &p.ID, &actor.ID,
		map[string]interface{}{"hospital_id": p.HospitalID.String()})
	return p, nil
}

// Get returns the patient after an evaluator grant.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Patient, error) {
	return s.EvaluateAccess(ctx, actor, id)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}
