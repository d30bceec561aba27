package coordination

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardops/hospital-coordination/internal/model"
)

func TestRequestTransfer_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admissions WHERE id = \?`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectExec(`INSERT INTO clinical_orders`).
		WithArgs(10, "OTHER", "Move closer to nursing station", "", "", model.RoomTransferTag, 9).
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \?`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "ACTIVE", 9, nil))

	o, err := c.Transfers.RequestTransfer(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10,
		"Move closer to nursing station")

	require.NoError(t, err)
	assert.Equal(t, uint64(40), o.ID)
	assert.True(t, o.IsTransfer())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestTransfer_NotAdmitted(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admissions WHERE id = \?`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))

	_, err := c.Transfers.RequestTransfer(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, "")

	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_ClaimedOrder(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	// Nurse 3 already claimed the transfer order: the execute path
	// relocates the admission, swaps the beds and completes the order
	// in one transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "IN_PROGRESS", 9, 3))
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectQuery(`WHERE b\.room_id = \?`).
		WithArgs(6).
		WillReturnRows(bedRow(20, 2, 6, "301", "PRIVATE", 3))
	mock.ExpectExec(`UPDATE admissions SET room_id = \?, bed_id = \?`).
		WithArgs(6, 20, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'OCCUPIED'`).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'COMPLETED'`).
		WithArgs(3, "Transferred to room 301 bed 2", 40, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dest, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	require.NoError(t, err)
	assert.Equal(t, uint64(20), dest.BedID)
	assert.Equal(t, "301", dest.RoomNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_UnclaimedOrderIsClaimedInline(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "ACTIVE", 9, nil))
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectQuery(`WHERE b\.room_id = \?`).
		WithArgs(6).
		WillReturnRows(bedRow(20, 2, 6, "301", "PRIVATE", 3))
	mock.ExpectExec(`UPDATE admissions SET room_id = \?, bed_id = \?`).
		WithArgs(6, 20, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'OCCUPIED'`).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'IN_PROGRESS'`).
		WithArgs(3, 40).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'COMPLETED'`).
		WithArgs(3, "Transferred to room 301 bed 2", 40, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dest, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	require.NoError(t, err)
	assert.Equal(t, uint64(20), dest.BedID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_DestinationFullRollsBackEverything(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	// No free bed in the destination room: nothing is written, the old
	// bed stays occupied and the order stays open.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "IN_PROGRESS", 9, 3))
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectQuery(`WHERE b\.room_id = \?`).
		WithArgs(6).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	dest, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	assert.ErrorIs(t, err, ErrNoBedAvailable)
	assert.Nil(t, dest)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_RejectsNonTransferOrder(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(41).
		WillReturnRows(orderRow(41, 10, "MEDICATION", nil, "ACTIVE", 9, nil))
	mock.ExpectRollback()

	_, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 41, 6)

	assert.ErrorIs(t, err, ErrInvalidOrder)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_RejectsOrderForOtherAdmission(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 11, "OTHER", model.RoomTransferTag, "ACTIVE", 9, nil))
	mock.ExpectRollback()

	_, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	assert.ErrorIs(t, err, ErrInvalidOrder)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_ClaimedByAnotherNurse(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "IN_PROGRESS", 9, 4))
	mock.ExpectRollback()

	_, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	assert.ErrorIs(t, err, ErrNotClaimant)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_CompletedOrder(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "COMPLETED", 9, nil))
	mock.ExpectRollback()

	_, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	assert.ErrorIs(t, err, ErrInvalidOrder)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransfer_AdmissionNotAdmitted(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \? FOR UPDATE`).
		WithArgs(40).
		WillReturnRows(orderRow(40, 10, "OTHER", model.RoomTransferTag, "ACTIVE", 9, nil))
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "DISCHARGED", 9))
	mock.ExpectRollback()

	_, err := c.Transfers.ExecuteTransfer(context.Background(), Actor{ID: 3, Role: "NURSE"}, 10, 40, 6)

	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}
