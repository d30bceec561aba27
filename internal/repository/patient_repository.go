package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/wardops/hospital-coordination/internal/model"
)

// ErrPatientNotFound is returned when a patient lookup fails.
var ErrPatientNotFound = errors.New("patient not found")

// ErrPatientNumberExists is returned when registration collides with an
// existing patient number.
var ErrPatientNumberExists = errors.New("patient number already exists")

// PatientRepo provides CRUD operations for patient demographic records.
type PatientRepo struct {
	db *sql.DB
}

// NewPatientRepo constructs a PatientRepo with the given DB handle.
func NewPatientRepo(db *sql.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

// Create inserts a new patient and populates the generated ID.  Duplicate
// patient numbers surface as ErrPatientNumberExists.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	const q = `INSERT INTO patients (patient_number, first_name, last_name, date_of_birth, gender, phone)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.PatientNumber, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Phone)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrPatientNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID retrieves a patient by ID.  It returns ErrPatientNotFound when
// no row is found.
func (r *PatientRepo) GetByID(ctx context.Context, id uint64) (*model.Patient, error) {
	const q = `SELECT id, patient_number, first_name, last_name, date_of_birth, gender, phone, created_at, updated_at
	           FROM patients WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// Search returns patients whose number matches exactly or whose name
// contains the query, capped at 50 rows.
func (r *PatientRepo) Search(ctx context.Context, query string) ([]model.Patient, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	const q = `SELECT id, patient_number, first_name, last_name, date_of_birth, gender, phone, created_at, updated_at
	           FROM patients
	           WHERE patient_number = ? OR CONCAT(first_name, ' ', last_name) LIKE ?
	           ORDER BY last_name, first_name
	           LIMIT 50`
	rows, err := r.db.QueryContext(ctx, q, strings.TrimSpace(query), like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Patient, 0)
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PatientRepo) scanOne(row interface{ Scan(...interface{}) error }) (*model.Patient, error) {
	var (
		p   model.Patient
		dob sql.NullTime
	)
	err := row.Scan(&p.ID, &p.PatientNumber, &p.FirstName, &p.LastName, &dob, &p.Gender, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}
	return &p, nil
}
