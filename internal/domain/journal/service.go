package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/internal/platform/auth"
)

// AccessChecker decides whether the actor may touch the patient's data.
// Backed by the access control evaluator.
type AccessChecker interface {
	CheckPatientAccess(ctx context.Context, actor auth.Actor, patientID uuid.UUID) error
}

// AuditSink appends system log entries, fire and forget.
type AuditSink interface {
	Append(ctx context.Context, action, entityType string, entityID, performedBy *uuid.UUID, metadata map[string]interface{})
}

// Service provides per-patient journal notes. Every operation is guarded by
// the access evaluator against the owning patient; for Get, the entry is
// loaded first and the evaluator runs against its patient id.
type Service struct {
	repo   Repository
	access AccessChecker
	audit  AuditSink
}

func NewService(repo Repository, access AccessChecker, audit AuditSink) *Service {
	return &Service{repo: repo, access: access, audit: audit}
}

func (s *Service) Create(ctx context.Context, e *Entry, actor auth.Actor) (*Entry, error) {
	if e.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if err := s.access.CheckPatientAccess(ctx, actor, e.PatientID); err != nil {
		return nil, err
	}
	e.AuthorID = actor.ID
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "journal_entry_created", "journal_entry", &e.ID, &actor.ID,
		map[string]interface{}{"patient_id": e.PatientID.String()})
	return e, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, actor auth.Actor, limit, offset int) ([]*Entry, int, error) {
	if err := s.access.CheckPatientAccess(ctx, actor, patientID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckPatientAccess(ctx, actor, e.PatientID); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "journal_entry_viewed", "journal_entry", &e.ID, &actor.ID,
		map[string]interface{}{"patient_id": e.PatientID.String()})
	return e, nil
}
