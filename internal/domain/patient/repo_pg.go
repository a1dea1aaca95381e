package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/carebridge/internal/platform/db"
	"github.com/carebridge/carebridge/pkg/apperr"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, hospital_id, patient_user_id, primary_caregiver_id,
	secondary_caregiver_ids, nurse_ids, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.SecondaryCaregiverIDs == nil {
		p.SecondaryCaregiverIDs = []uuid.UUID{}
	}
	if p.NurseIDs == nil {
		p.NurseIDs = []uuid.UUID{}
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, hospital_id, patient_user_id, primary_caregiver_id,
			secondary_caregiver_ids, nurse_ids, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		p.ID, p.HospitalID, p.PatientUserID, p.PrimaryCaregiverID,
		p.SecondaryCaregiverIDs, p.NurseIDs, p.Status).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.HospitalID, &p.PatientUserID, &p.PrimaryCaregiverID,
			&p.SecondaryCaregiverIDs, &p.NurseIDs, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("patient %s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT family_member_id FROM patient_family_members WHERE patient_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	p.FamilyMemberIDs = []uuid.UUID{}
	for rows.Next() {
		var fid uuid.UUID
		if err := rows.Scan(&fid); err != nil {
			return nil, err
		}
		p.FamilyMemberIDs = append(p.FamilyMemberIDs, fid)
	}
	return &p, rows.Err()
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patients
		WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.HospitalID, &p.PatientUserID, &p.PrimaryCaregiverID,
			&p.SecondaryCaregiverIDs, &p.NurseIDs, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SetPrimaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET primary_caregiver_id = $2, updated_at = NOW()
		WHERE id = $1`, patientID, caregiverID)
	return err
}

func (r *repoPG) ClearPrimaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET primary_caregiver_id = NULL, updated_at = NOW()
		WHERE id = $1 AND primary_caregiver_id = $2`, patientID, caregiverID)
	return err
}

// Array adds are guarded so a concurrent duplicate add is still a single
// occurrence: the WHERE clause makes re-adding an existing member a no-op.
func (r *repoPG) AddSecondaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET secondary_caregiver_ids = array_append(secondary_caregiver_ids, $2),
			updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(secondary_caregiver_ids))`, patientID, caregiverID)
	return err
}

func (r *repoPG) RemoveSecondaryCaregiver(ctx context.Context, patientID, caregiverID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET secondary_caregiver_ids = array_remove(secondary_caregiver_ids, $2),
			updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(secondary_caregiver_ids)`, patientID, caregiverID)
	return err
}

func (r *repoPG) AddNurse(ctx context.Context, patientID, nurseID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET nurse_ids = array_append(nurse_ids, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(nurse_ids))`, patientID, nurseID)
	return err
}

func (r *repoPG) RemoveNurse(ctx context.Context, patientID, nurseID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET nurse_ids = array_remove(nurse_ids, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(nurse_ids)`, patientID, nurseID)
	return err
}

func (r *repoPG) UpsertFamilyMember(ctx context.Context, fm *FamilyMember) error {
	if fm.ID == uuid.Nil {
		fm.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_family_members
			(id, patient_id, family_member_id, relationship, can_make_appointments, can_access_medical_records)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (patient_id, family_member_id) DO UPDATE SET
			relationship = EXCLUDED.relationship,
			can_make_appointments = EXCLUDED.can_make_appointments,
			can_access_medical_records = EXCLUDED.can_access_medical_records
		RETURNING id, created_at`,
		fm.ID, fm.PatientID, fm.FamilyMemberID, fm.Relationship,
		fm.CanMakeAppointments, fm.CanAccessMedicalRecords).
		Scan(&fm.ID, &fm.CreatedAt)
}

func (r *repoPG) RemoveFamilyMember(ctx context.Context, patientID, familyMemberID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM patient_family_members WHERE patient_id = $1 AND family_member_id = $2`,
		patientID, familyMemberID)
	return err
}

func (r *repoPG) ListFamilyMembers(ctx context.Context, patientID uuid.UUID) ([]*FamilyMember, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, family_member_id, relationship,
			can_make_appointments, can_access_medical_records, created_at
		FROM patient_family_members WHERE patient_id = $1
		ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*FamilyMember
	for rows.Next() {
		var fm FamilyMember
		if err := rows.Scan(&fm.ID, &fm.PatientID, &fm.FamilyMemberID, &fm.Relationship,
			&fm.CanMakeAppointments, &fm.CanAccessMedicalRecords, &fm.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &fm)
	}
	return items, rows.Err()
}

func (r *repoPG) GetStatus(ctx context.Context, patientID uuid.UUID) (*StatusResult, error) {
	var res StatusResult
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT status, updated_at FROM patients WHERE id = $1`, patientID).
		Scan(&res.Status, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("patient %s", patientID)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, patientID uuid.UUID, status string) (time.Time, error) {
	var updatedAt time.Time
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patients SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`, patientID, status).
		Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, apperr.NotFoundf("patient %s", patientID)
	}
	return updatedAt, err
}
