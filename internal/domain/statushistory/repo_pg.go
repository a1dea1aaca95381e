package statushistory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/carebridge/internal/platform/db"
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

func (r *repoPG) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_status_history
			(id, patient_id, from_status, to_status, changed_by, notes, effective_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		rec.ID, rec.PatientID, rec.FromStatus, rec.ToStatus,
		rec.ChangedBy, rec.Notes, rec.EffectiveAt).
		Scan(&rec.CreatedAt)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, rng Range, limit, offset int) ([]*Record, int, error) {
	where := ` WHERE patient_id = $1`
	args := []interface{}{patientID}
	idx := 2

	if rng.From != nil {
		where += fmt.Sprintf(` AND effective_at >= $%d`, idx)
		args = append(args, *rng.From)
		idx++
	}
	if rng.To != nil {
		where += fmt.Sprintf(` AND effective_at <= $%d`, idx)
		args = append(args, *rng.To)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_status_history`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, patient_id, from_status, to_status, changed_by, notes, effective_at, created_at
		FROM patient_status_history` + where +
		fmt.Sprintf(` ORDER BY effective_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.FromStatus, &rec.ToStatus,
			&rec.ChangedBy, &rec.Notes, &rec.EffectiveAt, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &rec)
	}
	return items, total, rows.Err()
}
