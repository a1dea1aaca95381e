package systemlog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	entries   []*Entry
	insertErr error
}

func (m *mockRepo) Insert(_ context.Context, e *Entry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	var r []*Entry
	for _, e := range m.entries {
		if a, ok := params["action"]; ok && e.Action != a {
			continue
		}
		r = append(r, e)
	}
	return r, len(r), nil
}

func TestAppend_RecordsEntry(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop())

	actor := uuid.New()
	entity := uuid.New()
	svc.Append(context.Background(), "patient_status_updated", "patient", &entity, &actor,
		map[string]interface{}{"from": "active", "to": "discharged"})

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.Action != "patient_status_updated" || e.EntityType != "patient" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.EntityID == nil || *e.EntityID != entity {
		t.Error("entity id not recorded")
	}
	if e.Metadata["to"] != "discharged" {
		t.Errorf("metadata not recorded: %v", e.Metadata)
	}
}

func TestAppend_SwallowsRepoError(t *testing.T) {
	repo := &mockRepo{insertErr: errors.New("connection lost")}
	svc := NewService(repo, zerolog.Nop())

	// Must not panic or propagate.
	svc.Append(context.Background(), "patient_created", "patient", nil, nil, nil)

	if len(repo.entries) != 0 {
		t.Fatal("expected no entries")
	}
}

func TestSearch_FiltersByAction(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop())

	svc.Append(context.Background(), "patient_created", "patient", nil, nil, nil)
	svc.Append(context.Background(), "caregiver_assigned", "patient", nil, nil, nil)
	svc.Append(context.Background(), "patient_created", "patient", nil, nil, nil)

	items, total, err := svc.Search(context.Background(), map[string]string{"action": "patient_created"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d (total %d)", len(items), total)
	}
}
