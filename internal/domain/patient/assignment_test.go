package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/pkg/apperr"
)

func TestAssignNurse_Idempotent(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	nurseID := uuid.New()
	actor := staffActor(p.HospitalID)

	for i := 0; i < 2; i++ {
		if _, err := f.svc.AssignNurse(context.Background(), p.ID, nurseID, actor); err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
	}

	got, _ := f.repo.GetByID(context.Background(), p.ID)
	count := 0
	for _, id := range got.NurseIDs {
		if id == nurseID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one occurrence, got %d", count)
	}
}

func TestAssignCaregiver_PrimaryOverwrites(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)
	first, second := uuid.New(), uuid.New()

	if _, err := f.svc.AssignCaregiver(context.Background(), p.ID, first, true, actor); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.AssignCaregiver(context.Background(), p.ID, second, true, actor)
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimaryCaregiverID == nil || *got.PrimaryCaregiverID != second {
		t.Errorf("expected primary slot overwritten with %s, got %v", second, got.PrimaryCaregiverID)
	}
}

func TestAssignCaregiver_SecondaryIsSetAdd(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)
	cg := uuid.New()

	f.svc.AssignCaregiver(context.Background(), p.ID, cg, false, actor)
	got, err := f.svc.AssignCaregiver(context.Background(), p.ID, cg, false, actor)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SecondaryCaregiverIDs) != 1 {
		t.Errorf("expected one secondary caregiver, got %d", len(got.SecondaryCaregiverIDs))
	}
}

func TestUnassignCaregiver_NonMemberIsNoOp(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)
	assigned := uuid.New()
	f.svc.AssignCaregiver(context.Background(), p.ID, assigned, false, actor)

	got, err := f.svc.UnassignCaregiver(context.Background(), p.ID, uuid.New(), "", actor)
	if err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(got.SecondaryCaregiverIDs) != 1 || got.SecondaryCaregiverIDs[0] != assigned {
		t.Errorf("graph changed by no-op unassign: %+v", got.SecondaryCaregiverIDs)
	}
}

func TestUnassignCaregiver_PatientAbsent(t *testing.T) {
	f := newFixture()
	_, err := f.svc.UnassignCaregiver(context.Background(), uuid.New(), uuid.New(), "", staffActor(uuid.New()))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnassignCaregiver_KindScopesRemoval(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)
	cg := uuid.New()

	// Same caregiver in both slots.
	f.svc.AssignCaregiver(context.Background(), p.ID, cg, true, actor)
	f.svc.AssignCaregiver(context.Background(), p.ID, cg, false, actor)

	got, err := f.svc.UnassignCaregiver(context.Background(), p.ID, cg, CaregiverKindSecondary, actor)
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimaryCaregiverID == nil || *got.PrimaryCaregiverID != cg {
		t.Error("primary slot should survive a secondary-scoped unassign")
	}
	if len(got.SecondaryCaregiverIDs) != 0 {
		t.Error("secondary set should be empty")
	}

	got, err = f.svc.UnassignCaregiver(context.Background(), p.ID, cg, "", actor)
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimaryCaregiverID != nil {
		t.Error("empty kind should clear the primary slot too")
	}
}

func TestUnassignCaregiver_InvalidKind(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	_, err := f.svc.UnassignCaregiver(context.Background(), p.ID, uuid.New(), "tertiary", staffActor(p.HospitalID))
	if err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestAssignFamilyMember_UpsertUpdatesFlags(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)
	familyID := uuid.New()

	f.svc.AssignFamilyMember(context.Background(), p.ID, familyID, "son", false, false, actor)
	got, err := f.svc.AssignFamilyMember(context.Background(), p.ID, familyID, "son", true, true, actor)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.FamilyMemberIDs) != 1 {
		t.Fatalf("expected single membership, got %d", len(got.FamilyMemberIDs))
	}

	members, _ := f.repo.ListFamilyMembers(context.Background(), p.ID)
	if len(members) != 1 || !members[0].CanMakeAppointments || !members[0].CanAccessMedicalRecords {
		t.Errorf("expected upserted flags, got %+v", members)
	}
}

func TestUnassignFamilyMember(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)
	familyID := uuid.New()
	f.svc.AssignFamilyMember(context.Background(), p.ID, familyID, "spouse", true, false, actor)

	got, err := f.svc.UnassignFamilyMember(context.Background(), p.ID, familyID, actor)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.FamilyMemberIDs) != 0 {
		t.Errorf("membership not removed: %+v", got.FamilyMemberIDs)
	}
}

func TestAssignmentMutations_AppendAuditEntries(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)

	f.svc.AssignNurse(context.Background(), p.ID, uuid.New(), actor)
	f.svc.AssignCaregiver(context.Background(), p.ID, uuid.New(), true, actor)
	f.svc.AssignFamilyMember(context.Background(), p.ID, uuid.New(), "aunt", false, false, actor)

	want := []string{"nurse_assigned", "caregiver_assigned", "family_member_assigned"}
	if len(f.audit.calls) != len(want) {
		t.Fatalf("expected %d audit entries, got %d", len(want), len(f.audit.calls))
	}
	for i, action := range want {
		if f.audit.calls[i].action != action {
			t.Errorf("entry %d: expected %s, got %s", i, action, f.audit.calls[i].action)
		}
	}
}

func TestLinkCaregiverToNurse(t *testing.T) {
	f := newFixture()
	caregiverID := uuid.New()
	f.linker.links[caregiverID] = nil
	nurseID := uuid.New()
	actor := staffActor(uuid.New())

	if err := f.svc.LinkCaregiverToNurse(context.Background(), caregiverID, nurseID, actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.linker.links[caregiverID]; got == nil || *got != nurseID {
		t.Error("link not set")
	}

	if err := f.svc.UnlinkCaregiverFromNurse(context.Background(), caregiverID, actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.linker.links[caregiverID] != nil {
		t.Error("link not cleared")
	}
}

func TestLinkCaregiverToNurse_CaregiverAbsent(t *testing.T) {
	f := newFixture()
	err := f.svc.LinkCaregiverToNurse(context.Background(), uuid.New(), uuid.New(), staffActor(uuid.New()))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAssignments_ResolvesSummaries(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(uuid.New())
	actor := staffActor(p.HospitalID)

	nurseID := uuid.New()
	cgID := uuid.New()
	familyID := uuid.New()
	f.dir.summaries[nurseID] = UserSummary{ID: nurseID, FullName: "Nina Okafor", Role: "nurse"}
	f.dir.summaries[cgID] = UserSummary{ID: cgID, FullName: "Carl Mendes", Role: "caregiver"}
	f.dir.summaries[familyID] = UserSummary{ID: familyID, FullName: "Fay Mendes", Role: "family"}

	f.svc.AssignNurse(context.Background(), p.ID, nurseID, actor)
	f.svc.AssignCaregiver(context.Background(), p.ID, cgID, true, actor)
	f.svc.AssignFamilyMember(context.Background(), p.ID, familyID, "sister", true, false, actor)

	got, err := f.svc.GetAssignments(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimaryCaregiver == nil || got.PrimaryCaregiver.FullName != "Carl Mendes" {
		t.Errorf("primary caregiver not resolved: %+v", got.PrimaryCaregiver)
	}
	if len(got.Nurses) != 1 || got.Nurses[0].FullName != "Nina Okafor" {
		t.Errorf("nurse not resolved: %+v", got.Nurses)
	}
	if len(got.FamilyMembers) != 1 {
		t.Fatalf("expected one family member, got %d", len(got.FamilyMembers))
	}
	fm := got.FamilyMembers[0]
	if fm.FullName != "Fay Mendes" || fm.Relationship != "sister" || !fm.CanMakeAppointments {
		t.Errorf("family assignment not resolved with flags: %+v", fm)
	}
}

func TestGetAssignments_PatientAbsent(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetAssignments(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
