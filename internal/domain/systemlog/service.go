package systemlog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service provides the system log: an append-only trail of domain-level
// actions, queryable by administrators.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Append writes a log entry. Failures are logged but not returned: the log is
// best effort and must never fail the operation it describes.
func (s *Service) Append(ctx context.Context, action, entityType string, entityID, performedBy *uuid.UUID, metadata map[string]interface{}) {
	e := &Entry{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		PerformedBy: performedBy,
		Metadata:    metadata,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.logger.Error().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Msg("failed to append system log entry")
	}
}

// Search returns entries matching the filter params, newest first.
func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
