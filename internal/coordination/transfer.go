package coordination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// TransferCoordinator relocates an admitted patient to a new bed while
// resolving the transfer order that triggered the move.  A transfer
// request is an ordinary ClinicalOrder tagged ROOM_TRANSFER, so the
// request half reuses the order queue's state machine; the execute half
// composes the allocator's lock-check-occupy pattern and the queue's
// claim/complete pattern inside one outer transaction.  The composition
// matters: run as independent commits, a failure between steps could
// occupy a new bed without freeing the old one.
type TransferCoordinator struct {
	db         *sql.DB
	orders     *repository.OrderRepo
	admissions *repository.AdmissionRepo
	beds       *repository.BedRepo
}

// NewTransferCoordinator constructs a TransferCoordinator over the shared store.
func NewTransferCoordinator(db *sql.DB, orders *repository.OrderRepo, admissions *repository.AdmissionRepo, beds *repository.BedRepo) *TransferCoordinator {
	return &TransferCoordinator{db: db, orders: orders, admissions: admissions, beds: beds}
}

// RequestTransfer creates an ACTIVE order tagged ROOM_TRANSFER for an
// admitted patient.  The admission must currently hold a bed to move
// from, i.e. be ADMITTED.
func (t *TransferCoordinator) RequestTransfer(ctx context.Context, doctor Actor, admissionID uint64, notes string) (*model.ClinicalOrder, error) {
	adm, err := t.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.Status != model.AdmissionStatusAdmitted {
		return nil, ErrInvalidState
	}
	details := strings.TrimSpace(notes)
	if details == "" {
		details = "Room transfer requested"
	}
	tag := model.RoomTransferTag
	o := &model.ClinicalOrder{
		AdmissionID:         admissionID,
		OrderType:           model.OrderTypeOther,
		Details:             details,
		SpecialInstructions: &tag,
		OrderedBy:           doctor.ID,
	}
	if err := t.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ExecuteTransfer moves the patient into one available bed in the
// destination room and completes the transfer order, all in one
// transaction: verify and lock the order, lock the admission, lock a
// destination bed, repoint the admission, free the old bed, occupy the
// new one, then claim (if unclaimed) and complete the order.  Any
// failure rolls back every step, so a bed is never left double-occupied
// or orphaned mid-transfer; in particular a full destination room aborts
// with ErrNoBedAvailable and the order stays open for retry elsewhere.
func (t *TransferCoordinator) ExecuteTransfer(ctx context.Context, nurse Actor, admissionID, orderID, destRoomID uint64) (*repository.AvailableBed, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	ord, err := t.orders.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrInvalidOrder
		}
		return nil, err
	}
	if ord.AdmissionID != admissionID || !ord.IsTransfer() {
		return nil, ErrInvalidOrder
	}
	if ord.Status != model.OrderStatusActive && ord.Status != model.OrderStatusInProgress {
		return nil, ErrInvalidOrder
	}
	if ord.ClaimedBy != nil && *ord.ClaimedBy != nurse.ID {
		return nil, ErrNotClaimant
	}
	adm, err := t.admissions.GetForUpdateTx(ctx, tx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.Status != model.AdmissionStatusAdmitted {
		return nil, ErrInvalidState
	}
	dest, err := t.beds.FindAvailableInRoomTx(ctx, tx, destRoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoBedAvailable
		}
		return nil, err
	}
	if err := t.admissions.RelocateTx(ctx, tx, admissionID, dest.RoomID, dest.BedID); err != nil {
		return nil, err
	}
	if adm.BedID != nil {
		if err := t.beds.ReleaseTx(ctx, tx, *adm.BedID); err != nil {
			return nil, err
		}
	}
	ok, err := t.beds.OccupyTx(ctx, tx, dest.BedID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoBedAvailable
	}
	if ord.ClaimedBy == nil {
		n, err := t.orders.ClaimTx(ctx, tx, orderID, nurse.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrAlreadyClaimed
		}
	}
	note := fmt.Sprintf("Transferred to room %s bed %d", dest.RoomNumber, dest.BedNumber)
	n, err := t.orders.CompleteTx(ctx, tx, orderID, nurse.ID, note)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotClaimant
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return dest, nil
}
