package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wardops/hospital-coordination/internal/model"
)

// ErrBedNotFound is returned when a bed lookup fails.
var ErrBedNotFound = errors.New("bed not found")

// BedRepo encapsulates database operations for beds.  All mutating
// methods take an explicit transaction: bed status only ever changes as
// one leg of a multi-row effect (assignment, discharge, transfer) and
// must commit or roll back together with the admission row.
type BedRepo struct {
	db *sql.DB
}

// NewBedRepo constructs a BedRepo given a DB handle.
func NewBedRepo(db *sql.DB) *BedRepo {
	return &BedRepo{db: db}
}

// AvailableBed is the candidate row returned by the allocation queries.
// It carries enough room context for the caller to report what was
// assigned without a second read.
type AvailableBed struct {
	BedID       uint64 `json:"bed_id"`
	BedNumber   int    `json:"bed_number"`
	RoomID      uint64 `json:"room_id"`
	RoomNumber  string `json:"room_number"`
	RoomType    string `json:"room_type"`
	FloorNumber int    `json:"floor_number"`
}

// FindAvailableTx selects one available bed in an active room and locks
// the row for the duration of the transaction.  Candidates are ordered by
// room-type match, then floor match, then room number and bed number, so
// the choice is deterministic and preference-biased but never fails while
// any bed remains free.  Returns sql.ErrNoRows when the hospital is full.
func (r *BedRepo) FindAvailableTx(ctx context.Context, tx *sql.Tx, roomType string, floor int) (*AvailableBed, error) {
	const q = `SELECT b.id, b.bed_number, r.id, r.room_number, r.room_type, r.floor_number
	           FROM beds b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.status = 'AVAILABLE' AND r.status = 'ACTIVE'
	           ORDER BY (r.room_type = ?) DESC, (r.floor_number = ?) DESC, r.room_number, b.bed_number
	           LIMIT 1
	           FOR UPDATE`
	var ab AvailableBed
	err := tx.QueryRowContext(ctx, q, roomType, floor).Scan(
		&ab.BedID, &ab.BedNumber, &ab.RoomID, &ab.RoomNumber, &ab.RoomType, &ab.FloorNumber,
	)
	if err != nil {
		return nil, err
	}
	return &ab, nil
}

// FindAvailableInRoomTx selects the lowest-numbered available bed in the
// given room and locks it.  Used when the caller already picked a room
// (specific assignment, transfers).  Returns sql.ErrNoRows when the room
// has no free bed.
func (r *BedRepo) FindAvailableInRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*AvailableBed, error) {
	const q = `SELECT b.id, b.bed_number, r.id, r.room_number, r.room_type, r.floor_number
	           FROM beds b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.room_id = ? AND b.status = 'AVAILABLE' AND r.status = 'ACTIVE'
	           ORDER BY b.bed_number
	           LIMIT 1
	           FOR UPDATE`
	var ab AvailableBed
	err := tx.QueryRowContext(ctx, q, roomID).Scan(
		&ab.BedID, &ab.BedNumber, &ab.RoomID, &ab.RoomNumber, &ab.RoomType, &ab.FloorNumber,
	)
	if err != nil {
		return nil, err
	}
	return &ab, nil
}

// OccupyTx flips a bed to OCCUPIED, conditioned on it still being
// AVAILABLE.  It reports whether the update took effect; false means the
// bed was taken between selection and write (stale UI selection) and the
// caller must abort the transaction.
func (r *BedRepo) OccupyTx(ctx context.Context, tx *sql.Tx, bedID uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE beds SET status = 'OCCUPIED' WHERE id = ? AND status = 'AVAILABLE'`, bedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseTx returns a bed to AVAILABLE.  The status guard makes the
// release idempotent: releasing an already-free bed affects zero rows and
// is not an error.
func (r *BedRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, bedID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE beds SET status = 'AVAILABLE' WHERE id = ? AND status = 'OCCUPIED'`, bedID)
	return err
}

// ListByRoom returns all beds in a room ordered by bed number.
func (r *BedRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Bed, error) {
	const q = `SELECT id, room_id, bed_number, status, created_at, updated_at
	           FROM beds WHERE room_id = ? ORDER BY bed_number`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	beds := make([]model.Bed, 0)
	for rows.Next() {
		var b model.Bed
		if err := rows.Scan(&b.ID, &b.RoomID, &b.BedNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return beds, nil
}
