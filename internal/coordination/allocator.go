package coordination

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// BedPreference biases bed selection without constraining it: a matching
// room type and floor sort first, but any free bed satisfies the request.
type BedPreference struct {
	RoomType string `json:"room_type"`
	Floor    int    `json:"floor"`
}

// BedAllocator finds an available bed and atomically marks it occupied
// while linking it to an admission.  Selection and occupation happen
// under one row lock in one transaction, so two concurrent assignments
// can never settle on the same bed.
type BedAllocator struct {
	db         *sql.DB
	admissions *repository.AdmissionRepo
	beds       *repository.BedRepo
}

// NewBedAllocator constructs a BedAllocator over the shared store.
func NewBedAllocator(db *sql.DB, admissions *repository.AdmissionRepo, beds *repository.BedRepo) *BedAllocator {
	return &BedAllocator{db: db, admissions: admissions, beds: beds}
}

// AssignBed assigns one available bed to a pending admission, preferring
// beds that match the given room type and floor.  On success the bed is
// OCCUPIED and the admission ADMITTED with its admission date defaulted;
// both writes commit atomically.  Returns ErrNoBedAvailable when the
// hospital holds no free bed in an active room.
func (a *BedAllocator) AssignBed(ctx context.Context, actor Actor, admissionID uint64, pref BedPreference) (*repository.AvailableBed, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	adm, err := a.admissions.GetForUpdateTx(ctx, tx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.Status == model.AdmissionStatusDischarged {
		return nil, ErrInvalidState
	}
	if adm.BedID != nil {
		return nil, ErrInvalidState
	}
	bed, err := a.beds.FindAvailableTx(ctx, tx, pref.RoomType, pref.Floor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBedAvailable
		}
		return nil, err
	}
	return a.finishAssignment(ctx, tx, &committed, admissionID, bed)
}

// AssignSpecificBed performs the same effect when the caller already
// picked a room.  Availability is re-validated under lock before
// committing, so a stale UI selection cannot double-book a bed.
func (a *BedAllocator) AssignSpecificBed(ctx context.Context, actor Actor, admissionID, roomID uint64) (*repository.AvailableBed, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	adm, err := a.admissions.GetForUpdateTx(ctx, tx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.Status == model.AdmissionStatusDischarged {
		return nil, ErrInvalidState
	}
	if adm.BedID != nil {
		return nil, ErrInvalidState
	}
	bed, err := a.beds.FindAvailableInRoomTx(ctx, tx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBedAvailable
		}
		return nil, err
	}
	return a.finishAssignment(ctx, tx, &committed, admissionID, bed)
}

// finishAssignment occupies the locked candidate and links it to the
// admission, then commits.  A zero-row occupy means the bed was taken
// after selection; the whole transaction aborts and the bed pool is
// untouched.
func (a *BedAllocator) finishAssignment(ctx context.Context, tx *sql.Tx, committed *bool, admissionID uint64, bed *repository.AvailableBed) (*repository.AvailableBed, error) {
	ok, err := a.beds.OccupyTx(ctx, tx, bed.BedID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoBedAvailable
	}
	if err := a.admissions.AssignBedTx(ctx, tx, admissionID, bed.RoomID, bed.BedID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	*committed = true
	return bed, nil
}
