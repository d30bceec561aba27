package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wardops/hospital-coordination/internal/model"
)

// ErrAdmissionNotFound is returned when an admission lookup fails.
var ErrAdmissionNotFound = errors.New("admission not found")

// AdmissionRepo provides CRUD operations for admissions.  An admission is
// the patient's inpatient stay record; its room/bed pointers and status
// column are only ever mutated inside a transaction together with the bed
// row they reference.
type AdmissionRepo struct {
	db *sql.DB
}

// NewAdmissionRepo returns an AdmissionRepo bound to the given database.
func NewAdmissionRepo(db *sql.DB) *AdmissionRepo { return &AdmissionRepo{db: db} }

const admissionColumns = `id, patient_id, room_id, bed_id, admission_status, admission_date,
	expected_discharge_date, actual_discharge_date, attending_doctor_id, notes, created_at, updated_at`

// scanAdmission reads one admission row into a model struct, converting
// nullable columns to pointers.
func scanAdmission(row interface{ Scan(...interface{}) error }) (*model.Admission, error) {
	var (
		a         model.Admission
		roomID    sql.NullInt64
		bedID     sql.NullInt64
		admitted  sql.NullTime
		expected  sql.NullTime
		actual    sql.NullTime
		notes     sql.NullString
	)
	err := row.Scan(&a.ID, &a.PatientID, &roomID, &bedID, &a.Status, &admitted,
		&expected, &actual, &a.AttendingDoctorID, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if roomID.Valid {
		v := uint64(roomID.Int64)
		a.RoomID = &v
	}
	if bedID.Valid {
		v := uint64(bedID.Int64)
		a.BedID = &v
	}
	if admitted.Valid {
		t := admitted.Time
		a.AdmissionDate = &t
	}
	if expected.Valid {
		t := expected.Time
		a.ExpectedDischargeDate = &t
	}
	if actual.Valid {
		t := actual.Time
		a.ActualDischargeDate = &t
	}
	if notes.Valid {
		s := notes.String
		a.Notes = &s
	}
	return &a, nil
}

// Create inserts a new admission in PENDING status without a bed.  The
// generated ID is populated on the passed struct and the row is read back
// so defaults and timestamps are filled in.
func (r *AdmissionRepo) Create(ctx context.Context, a *model.Admission) error {
	const q = `INSERT INTO admissions (patient_id, admission_status, expected_discharge_date, attending_doctor_id, notes)
	           VALUES (?, 'PENDING', ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.PatientID, a.ExpectedDischargeDate, a.AttendingDoctorID, a.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	got, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

// GetByID retrieves an admission by its ID.  It returns
// ErrAdmissionNotFound when no row is found.
func (r *AdmissionRepo) GetByID(ctx context.Context, id uint64) (*model.Admission, error) {
	a, err := scanAdmission(r.db.QueryRowContext(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetForUpdateTx reads an admission inside the given transaction while
// taking a row lock.  Every coordination decision re-reads the admission
// this way; no state is carried between calls.
func (r *AdmissionRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Admission, error) {
	a, err := scanAdmission(tx.QueryRowContext(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	return a, nil
}

// AssignBedTx links the admission to the chosen room and bed, marks it
// ADMITTED and defaults the admission date when unset.  Must run in the
// same transaction that occupies the bed.
func (r *AdmissionRepo) AssignBedTx(ctx context.Context, tx *sql.Tx, id, roomID, bedID uint64) error {
	const q = `UPDATE admissions
	           SET room_id = ?, bed_id = ?, admission_status = 'ADMITTED',
	               admission_date = COALESCE(admission_date, UTC_TIMESTAMP())
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, roomID, bedID, id)
	return err
}

// RelocateTx repoints an admitted patient to a new room/bed pair during a
// transfer.  Status and dates are untouched.
func (r *AdmissionRepo) RelocateTx(ctx context.Context, tx *sql.Tx, id, roomID, bedID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE admissions SET room_id = ?, bed_id = ? WHERE id = ?`, roomID, bedID, id)
	return err
}

// DischargeTx marks the admission DISCHARGED with the given time.  The
// status guard makes a second discharge a zero-row no-op, which the
// caller treats as success.
func (r *AdmissionRepo) DischargeTx(ctx context.Context, tx *sql.Tx, id uint64, when time.Time) error {
	const q = `UPDATE admissions
	           SET admission_status = 'DISCHARGED', actual_discharge_date = ?
	           WHERE id = ? AND admission_status <> 'DISCHARGED'`
	_, err := tx.ExecContext(ctx, q, when.UTC().Format("2006-01-02 15:04:05"), id)
	return err
}

// ClearBedTx nulls the admission's room/bed pointers after its bed has
// been released.
func (r *AdmissionRepo) ClearBedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE admissions SET room_id = NULL, bed_id = NULL WHERE id = ?`, id)
	return err
}

// AdmissionProfile joins an admission with its patient and current
// room/bed for display.  Notes come back as stored (ciphertext); the
// handler decrypts before rendering.
type AdmissionProfile struct {
	ID                uint64  `json:"id"`
	Status            string  `json:"status"`
	PatientID         uint64  `json:"patient_id"`
	PatientNumber     string  `json:"patient_number"`
	PatientName       string  `json:"patient_name"`
	AttendingDoctorID uint64  `json:"attending_doctor_id"`
	RoomID            *uint64 `json:"room_id,omitempty"`
	RoomNumber        *string `json:"room_number,omitempty"`
	BedID             *uint64 `json:"bed_id,omitempty"`
	BedNumber         *int    `json:"bed_number,omitempty"`
	AdmissionDate     *string `json:"admission_date,omitempty"`
	DischargeDate     *string `json:"discharge_date,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// GetProfile loads the display profile for one admission.  It returns
// ErrAdmissionNotFound when the admission does not exist.
func (r *AdmissionRepo) GetProfile(ctx context.Context, id uint64) (*AdmissionProfile, error) {
	const q = `SELECT a.id, a.admission_status, p.id, p.patient_number,
	                  CONCAT(p.first_name, ' ', p.last_name),
	                  a.attending_doctor_id, a.room_id, r.room_number, a.bed_id, b.bed_number,
	                  a.admission_date, a.actual_discharge_date, a.notes
	           FROM admissions a
	           JOIN patients p ON p.id = a.patient_id
	           LEFT JOIN rooms r ON r.id = a.room_id
	           LEFT JOIN beds b ON b.id = a.bed_id
	           WHERE a.id = ?`
	var (
		prof       AdmissionProfile
		roomID     sql.NullInt64
		roomNumber sql.NullString
		bedID      sql.NullInt64
		bedNumber  sql.NullInt64
		admitted   sql.NullTime
		discharged sql.NullTime
		notes      sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&prof.ID, &prof.Status, &prof.PatientID, &prof.PatientNumber, &prof.PatientName,
		&prof.AttendingDoctorID, &roomID, &roomNumber, &bedID, &bedNumber,
		&admitted, &discharged, &notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	if roomID.Valid {
		v := uint64(roomID.Int64)
		prof.RoomID = &v
	}
	if roomNumber.Valid {
		s := roomNumber.String
		prof.RoomNumber = &s
	}
	if bedID.Valid {
		v := uint64(bedID.Int64)
		prof.BedID = &v
	}
	if bedNumber.Valid {
		n := int(bedNumber.Int64)
		prof.BedNumber = &n
	}
	if admitted.Valid {
		iso := admitted.Time.UTC().Format(time.RFC3339)
		prof.AdmissionDate = &iso
	}
	if discharged.Valid {
		iso := discharged.Time.UTC().Format(time.RFC3339)
		prof.DischargeDate = &iso
	}
	if notes.Valid {
		s := notes.String
		prof.Notes = &s
	}
	return &prof, nil
}

// ListActive returns profiles for all admissions that are not yet
// discharged, newest first.
func (r *AdmissionRepo) ListActive(ctx context.Context) ([]AdmissionProfile, error) {
	const q = `SELECT a.id, a.admission_status, p.id, p.patient_number,
	                  CONCAT(p.first_name, ' ', p.last_name),
	                  a.attending_doctor_id, a.room_id, r.room_number, a.bed_id, b.bed_number,
	                  a.admission_date
	           FROM admissions a
	           JOIN patients p ON p.id = a.patient_id
	           LEFT JOIN rooms r ON r.id = a.room_id
	           LEFT JOIN beds b ON b.id = a.bed_id
	           WHERE a.admission_status <> 'DISCHARGED'
	           ORDER BY a.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdmissionProfile, 0)
	for rows.Next() {
		var (
			prof       AdmissionProfile
			roomID     sql.NullInt64
			roomNumber sql.NullString
			bedID      sql.NullInt64
			bedNumber  sql.NullInt64
			admitted   sql.NullTime
		)
		if err := rows.Scan(
			&prof.ID, &prof.Status, &prof.PatientID, &prof.PatientNumber, &prof.PatientName,
			&prof.AttendingDoctorID, &roomID, &roomNumber, &bedID, &bedNumber, &admitted,
		); err != nil {
			return nil, err
		}
		if roomID.Valid {
			v := uint64(roomID.Int64)
			prof.RoomID = &v
		}
		if roomNumber.Valid {
			s := roomNumber.String
			prof.RoomNumber = &s
		}
		if bedID.Valid {
			v := uint64(bedID.Int64)
			prof.BedID = &v
		}
		if bedNumber.Valid {
			n := int(bedNumber.Int64)
			prof.BedNumber = &n
		}
		if admitted.Valid {
			iso := admitted.Time.UTC().Format(time.RFC3339)
			prof.AdmissionDate = &iso
		}
		out = append(out, prof)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
