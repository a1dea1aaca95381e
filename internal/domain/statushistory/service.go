package statushistory

import (
	"context"

	"github.com/google/uuid"
)

// Directory resolves user ids to display summaries. Unknown ids are omitted.
type Directory interface {
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserSummary, error)
}

// Service provides the status history ledger.
type Service struct {
	repo  Repository
	users Directory
}

func NewService(repo Repository, users Directory) *Service {
	return &Service{repo: repo, users: users}
}

// Record appends a transition to the ledger.
func (s *Service) Record(ctx context.Context, rec *Record) error {
	return s.repo.Insert(ctx, rec)
}

// ListByPatient returns the patient's transitions inside the inclusive range,
// newest first, with each changing actor resolved to a user summary. An empty
// range is an empty page with correct totals, not an error.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, rng Range, limit, offset int) ([]*Record, int, error) {
	items, total, err := s.repo.ListByPatient(ctx, patientID, rng, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool)
	for _, rec := range items {
		if !seen[rec.ChangedBy] {
			seen[rec.ChangedBy] = true
			ids = append(ids, rec.ChangedBy)
		}
	}
	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, rec := range items {
		if sum, ok := summaries[rec.ChangedBy]; ok {
			s := sum
			rec.ChangedByUser = &s
		}
	}
	return items, total, nil
}
