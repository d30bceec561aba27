package coordination

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignBed_PrefersMatchingRoomTypeAndFloor(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	ctx := context.Background()
	admin := Actor{ID: 1, Role: "ADMIN"}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectQuery(`FROM beds b`).
		WithArgs("WARD", 2).
		WillReturnRows(bedRow(12, 3, 5, "205", "WARD", 2))
	mock.ExpectExec(`UPDATE beds SET status = 'OCCUPIED'`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE admissions`).
		WithArgs(5, 12, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bed, err := c.Allocator.AssignBed(ctx, admin, 10, BedPreference{RoomType: "WARD", Floor: 2})

	require.NoError(t, err)
	assert.Equal(t, uint64(12), bed.BedID)
	assert.Equal(t, "205", bed.RoomNumber)
	assert.Equal(t, "WARD", bed.RoomType)
	assert.Equal(t, 2, bed.FloorNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignBed_HospitalFull(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectQuery(`FROM beds b`).
		WithArgs("PRIVATE", 1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	bed, err := c.Allocator.AssignBed(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 10, BedPreference{RoomType: "PRIVATE", Floor: 1})

	assert.ErrorIs(t, err, ErrNoBedAvailable)
	assert.Nil(t, bed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignBed_RejectsAdmissionWithBed(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	// Admission already holds bed 7: the request must abort before any
	// bed row is touched.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 7, "ADMITTED", 9))
	mock.ExpectRollback()

	bed, err := c.Allocator.AssignBed(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 10, BedPreference{})

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Nil(t, bed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignBed_RejectsDischargedAdmission(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "DISCHARGED", 9))
	mock.ExpectRollback()

	_, err := c.Allocator.AssignBed(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 10, BedPreference{})

	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignBed_BedTakenBetweenSelectAndOccupy(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	// The occupy guard reports zero rows when the selected bed flipped
	// to OCCUPIED underneath us; the whole transaction rolls back and
	// the admission keeps its PENDING state.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectQuery(`FROM beds b`).
		WithArgs("WARD", 2).
		WillReturnRows(bedRow(12, 3, 5, "205", "WARD", 2))
	mock.ExpectExec(`UPDATE beds SET status = 'OCCUPIED'`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := c.Allocator.AssignBed(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 10, BedPreference{RoomType: "WARD", Floor: 2})

	assert.ErrorIs(t, err, ErrNoBedAvailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSpecificBed_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectQuery(`WHERE b\.room_id = \?`).
		WithArgs(6).
		WillReturnRows(bedRow(20, 1, 6, "301", "PRIVATE", 3))
	mock.ExpectExec(`UPDATE beds SET status = 'OCCUPIED'`).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE admissions`).
		WithArgs(6, 20, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bed, err := c.Allocator.AssignSpecificBed(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 10, 6)

	require.NoError(t, err)
	assert.Equal(t, uint64(20), bed.BedID)
	assert.Equal(t, 1, bed.BedNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignSpecificBed_RoomFull(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectQuery(`WHERE b\.room_id = \?`).
		WithArgs(6).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := c.Allocator.AssignSpecificBed(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 10, 6)

	assert.ErrorIs(t, err, ErrNoBedAvailable)

	require.NoError(t, mock.ExpectationsWereMet())
}
