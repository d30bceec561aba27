package repository

import (
	"context"
	"database/sql"

	"github.com/wardops/hospital-coordination/internal/model"
)

// DeathRepo persists death declarations.  Insertion only ever happens
// inside the death-declaration transaction, together with the discharge
// and bed-release writes, so only a Tx method is exposed.
type DeathRepo struct {
	db *sql.DB
}

// NewDeathRepo constructs a DeathRepo given a DB handle.
func NewDeathRepo(db *sql.DB) *DeathRepo { return &DeathRepo{db: db} }

// InsertTx inserts a declaration within the provided transaction and
// populates the generated ID.  Review status starts at PENDING.
func (r *DeathRepo) InsertTx(ctx context.Context, tx *sql.Tx, d *model.DeathDeclaration) error {
	const q = `INSERT INTO death_declarations (admission_id, patient_id, declared_by, time_of_death, cause_of_death, notes, status)
	           VALUES (?, ?, ?, ?, ?, ?, 'PENDING')`
	res, err := tx.ExecContext(ctx, q, d.AdmissionID, d.PatientID, d.DeclaredBy,
		d.TimeOfDeath.UTC().Format("2006-01-02 15:04:05"), d.CauseOfDeath, d.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	d.Status = model.DeathStatusPending
	return nil
}

// GetByAdmission returns the declaration recorded for an admission, or
// sql.ErrNoRows when none exists.
func (r *DeathRepo) GetByAdmission(ctx context.Context, admissionID uint64) (*model.DeathDeclaration, error) {
	const q = `SELECT id, admission_id, patient_id, declared_by, time_of_death, cause_of_death, notes, status, created_at
	           FROM death_declarations WHERE admission_id = ?`
	var (
		d     model.DeathDeclaration
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, admissionID).Scan(
		&d.ID, &d.AdmissionID, &d.PatientID, &d.DeclaredBy, &d.TimeOfDeath,
		&d.CauseOfDeath, &notes, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		s := notes.String
		d.Notes = &s
	}
	return &d, nil
}
