package statushistory

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	records []*Record
}

func (m *mockRepo) Insert(_ context.Context, r *Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now().UTC()
	m.records = append(m.records, r)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, rng Range, limit, offset int) ([]*Record, int, error) {
	var matched []*Record
	for _, r := range m.records {
		if r.PatientID != patientID {
			continue
		}
		if rng.From != nil && r.EffectiveAt.Before(*rng.From) {
			continue
		}
		if rng.To != nil && r.EffectiveAt.After(*rng.To) {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].EffectiveAt.After(matched[j].EffectiveAt)
	})
	total := len(matched)
	if offset > len(matched) {
		matched = nil
	} else {
		matched = matched[offset:]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

type mockDirectory struct {
	summaries map[uuid.UUID]UserSummary
}

func (m *mockDirectory) Summaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]UserSummary, error) {
	out := make(map[uuid.UUID]UserSummary)
	for _, id := range ids {
		if s, ok := m.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func seed(repo *mockRepo, patientID uuid.UUID, actorID uuid.UUID, at time.Time, to string) {
	from := "active"
	repo.Insert(context.Background(), &Record{
		PatientID:   patientID,
		FromStatus:  &from,
		ToStatus:    to,
		ChangedBy:   actorID,
		EffectiveAt: at,
	})
}

func TestListByPatient_DescendingByEffectiveAt(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockDirectory{})
	patientID := uuid.New()
	actorID := uuid.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(repo, patientID, actorID, base, "inactive")
	seed(repo, patientID, actorID, base.Add(48*time.Hour), "discharged")
	seed(repo, patientID, actorID, base.Add(24*time.Hour), "active")

	items, total, err := svc.ListByPatient(context.Background(), patientID, Range{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 records, got %d (total %d)", len(items), total)
	}
	for i := 1; i < len(items); i++ {
		if items[i].EffectiveAt.After(items[i-1].EffectiveAt) {
			t.Error("records not in descending effective_at order")
		}
	}
}

func TestListByPatient_InclusiveRange(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockDirectory{})
	patientID := uuid.New()
	actorID := uuid.New()

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	seed(repo, patientID, actorID, from.Add(-time.Second), "inactive") // out
	seed(repo, patientID, actorID, from, "active")                     // boundary in
	seed(repo, patientID, actorID, to, "discharged")                   // boundary in
	seed(repo, patientID, actorID, to.Add(time.Second), "deceased")    // out

	items, total, err := svc.ListByPatient(context.Background(), patientID,
		Range{From: &from, To: &to}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected the two boundary records, got %d (total %d)", len(items), total)
	}
	if !items[0].EffectiveAt.Equal(to) || !items[1].EffectiveAt.Equal(from) {
		t.Errorf("unexpected records: %v, %v", items[0].EffectiveAt, items[1].EffectiveAt)
	}
}

func TestListByPatient_EmptyRangeIsEmptyPage(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockDirectory{})
	patientID := uuid.New()
	seed(repo, patientID, uuid.New(), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "inactive")

	from := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	items, total, err := svc.ListByPatient(context.Background(), patientID,
		Range{From: &from, To: &to}, 20, 0)
	if err != nil {
		t.Fatalf("empty range must not error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("expected empty page, got %d (total %d)", len(items), total)
	}
}

func TestListByPatient_ResolvesChangedBy(t *testing.T) {
	repo := &mockRepo{}
	actorID := uuid.New()
	dir := &mockDirectory{summaries: map[uuid.UUID]UserSummary{
		actorID: {ID: actorID, FullName: "Nina Okafor", Role: "nurse"},
	}}
	svc := NewService(repo, dir)
	patientID := uuid.New()
	seed(repo, patientID, actorID, time.Now().UTC(), "discharged")
	seed(repo, patientID, uuid.New(), time.Now().UTC(), "active") // unknown actor

	items, _, err := svc.ListByPatient(context.Background(), patientID, Range{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resolved, unresolved int
	for _, rec := range items {
		if rec.ChangedByUser != nil {
			resolved++
			if rec.ChangedByUser.FullName != "Nina Okafor" {
				t.Errorf("wrong summary: %+v", rec.ChangedByUser)
			}
		} else {
			unresolved++
		}
	}
	if resolved != 1 || unresolved != 1 {
		t.Errorf("expected 1 resolved and 1 unresolved, got %d/%d", resolved, unresolved)
	}
}

func TestListByPatient_Pagination(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockDirectory{})
	patientID := uuid.New()
	actorID := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seed(repo, patientID, actorID, base.Add(time.Duration(i)*time.Hour), "inactive")
	}

	items, total, err := svc.ListByPatient(context.Background(), patientID, Range{}, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected page of 2, got %d", len(items))
	}
}
