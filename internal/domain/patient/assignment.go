package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge/internal/platform/auth"
)

// Unassign kinds for UnassignCaregiver. Empty means both slots.
const (
	CaregiverKindPrimary   = "primary"
	CaregiverKindSecondary = "secondary"
)

// AssignCaregiver links a caregiver to the patient. Primary overwrites the
// singular slot (last write wins); secondary is an idempotent set add.
func (s *Service) AssignCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID, isPrimary bool, actor auth.Actor) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	var err error
	if isPrimary {
		err = s.repo.SetPrimaryCaregiver(ctx, patientID, caregiverID)
	} else {
		err = s.repo.AddSecondaryCaregiver(ctx, patientID, caregiverID)
	}
	if err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "caregiver_assigned", "patient", &patientID, &actor.ID,
		map[string]interface{}{"caregiver_id": caregiverID.String(), "is_primary": isPrimary})
	return s.repo.GetByID(ctx, patientID)
}

// UnassignCaregiver removes the caregiver from the given slot, or from both
// when kind is empty. Removing a non-member is a no-op.
func (s *Service) UnassignCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID, kind string, actor auth.Actor) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	switch kind {
	case CaregiverKindPrimary:
		if err := s.repo.ClearPrimaryCaregiver(ctx, patientID, caregiverID); err != nil {
			return nil, err
		}
	case CaregiverKindSecondary:
		if err := s.repo.RemoveSecondaryCaregiver(ctx, patientID, caregiverID); err != nil {
			return nil, err
		}
	case "":
		if err := s.repo.ClearPrimaryCaregiver(ctx, patientID, caregiverID); err != nil {
			return nil, err
		}
		if err := s.repo.RemoveSecondaryCaregiver(ctx, patientID, caregiverID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid caregiver type %q", kind)
	}
	s.audit.Append(ctx, "caregiver_unassigned", "patient", &patientID, &actor.ID,
		map[string]interface{}{"caregiver_id": caregiverID.String(), "type": kind})
	return s.repo.GetByID(ctx, patientID)
}

// AssignFamilyMember upserts the family membership with its permission flags.
func (s *Service) AssignFamilyMember(ctx context.Context, patientID, familyMemberID uuid.UUID,
	relationship string, canMakeAppointments, canAccessMedicalRecords bool, actor auth.Actor) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	fm := &FamilyMember{
		PatientID:               patientID,
		FamilyMemberID:          familyMemberID,
		Relationship:            relationship,
		CanMakeAppointments:     canMakeAppointments,
		CanAccessMedicalRecords: canAccessMedicalRecords,
	}
	if err := s.repo.UpsertFamilyMember(ctx, fm); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "family_member_assigned", "patient", &patientID, &actor.ID,
		map[string]interface{}{"family_member_id": familyMemberID.String(), "relationship": relationship})
	return s.repo.GetByID(ctx, patientID)
}

func (s *Service) UnassignFamilyMember(ctx context.Context, patientID, familyMemberID uuid.UUID, actor auth.Actor) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveFamilyMember(ctx, patientID, familyMemberID); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "family_member_unassigned", "patient", &patientID, &actor.ID,
		map[string]interface{}{"family_member_id": familyMemberID.String()})
	return s.repo.GetByID(ctx, patientID)
}

func (s *Service) AssignNurse(ctx context.Context, patientID, nurseID uuid.UUID, actor auth.Actor) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.repo.AddNurse(ctx, patientID, nurseID); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "nurse_assigned", "patient", &patientID, &actor.ID,
		map[string]interface{}{"nurse_id": nurseID.String()})
	return s.repo.GetByID(ctx, patientID)
}

func (s *Service) UnassignNurse(ctx context.Context, patientID, nurseID uuid.UUID, actor auth.Actor) (*Patient, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveNurse(ctx, patientID, nurseID); err != nil {
		return nil, err
	}
	s.audit.Append(ctx, "nurse_unassigned", "patient", &patientID, &actor.ID,
		map[string]interface{}{"nurse_id": nurseID.String()})
	return s.repo.GetByID(ctx, patientID)
}

// LinkCaregiverToNurse points the caregiver at a supervising nurse.
// Independent of any patient linkage.
func (s *Service) LinkCaregiverToNurse(ctx context.Context, caregiverID, nurseID uuid.UUID, actor auth.Actor) error {
	if err := s.links.SetSupervisingNurse(ctx, caregiverID, &nurseID); err != nil {
		return err
	}
	s.audit.Append(ctx, "caregiver_linked_to_nurse", "user", &caregiverID, &actor.ID,
		map[string]interface{}{"nurse_id": nurseID.String()})
	return nil
}

func (s *Service) UnlinkCaregiverFromNurse(ctx context.Context, caregiverID uuid.UUID, actor auth.Actor) error {
	if err := s.links.SetSupervisingNurse(ctx, caregiverID, nil); err != nil {
		return err
	}
	s.audit.Append(ctx, "caregiver_unlinked_from_nurse", "user", &caregiverID, &actor.ID, nil)
	return nil
}

// GetAssignments projects the patient's relationship graph with each linked
// identity resolved to a user summary. Ids the directory cannot resolve are
// returned with the id only.
func (s *Service) GetAssignments(ctx context.Context, patientID uuid.UUID) (*Assignments, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListFamilyMembers(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	if p.PrimaryCaregiverID != nil {
		ids = append(ids, *p.PrimaryCaregiverID)
	}
	ids = append(ids, p.SecondaryCaregiverIDs...)
	ids = append(ids, p.NurseIDs...)
	for _, fm := range members {
		ids = append(ids, fm.FamilyMemberID)
	}

	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	resolve := func(id uuid.UUID) UserSummary {
		if s, ok := summaries[id]; ok {
			return s
		}
		return UserSummary{ID: id}
	}

	out := &Assignments{
		PatientID:           p.ID,
		SecondaryCaregivers: []UserSummary{},
		Nurses:              []UserSummary{},
		FamilyMembers:       []FamilyAssignment{},
	}
	if p.PrimaryCaregiverID != nil {
		pc := resolve(*p.PrimaryCaregiverID)
		out.PrimaryCaregiver = &pc
	}
	for _, id := range p.SecondaryCaregiverIDs {
		out.SecondaryCaregivers = append(out.SecondaryCaregivers, resolve(id))
	}
	for _, id := range p.NurseIDs {
		out.Nurses = append(out.Nurses, resolve(id))
	}
	for _, fm := range members {
		out.FamilyMembers = append(out.FamilyMembers, FamilyAssignment{
			UserSummary:             resolve(fm.FamilyMemberID),
			Relationship:            fm.Relationship,
			CanMakeAppointments:     fm.CanMakeAppointments,
			CanAccessMedicalRecords: fm.CanAccessMedicalRecords,
		})
	}
	return out, nil
}
