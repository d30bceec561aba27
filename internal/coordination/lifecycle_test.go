package coordination

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardops/hospital-coordination/internal/model"
)

func TestDischarge_FreesBedAndClearsPointers(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	when := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectExec(`SET admission_status = 'DISCHARGED'`).
		WithArgs("2026-03-01 14:30:00", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET room_id = NULL`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := c.Lifecycle.Discharge(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, when)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDischarge_SecondCallIsNoOp(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	// Already discharged and bed already cleared: no write runs, the
	// call still succeeds.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "DISCHARGED", 9))
	mock.ExpectCommit()

	err := c.Lifecycle.Discharge(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, time.Now())

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDischarge_PendingAdmissionWithoutBed(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	when := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectExec(`SET admission_status = 'DISCHARGED'`).
		WithArgs("2026-03-01 09:00:00", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := c.Lifecycle.Discharge(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, when)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareDeath_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectExec(`INSERT INTO death_declarations`).
		WithArgs(10, 4, 9, "2026-02-14 03:25:00", "Cardiac arrest", nil).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(`SET admission_status = 'DISCHARGED'`).
		WithArgs("2026-02-14 03:25:00", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET room_id = NULL`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	decl, err := c.Lifecycle.DeclareDeath(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10,
		"2026-02-14 03:25", "Cardiac arrest", "")

	require.NoError(t, err)
	assert.Equal(t, uint64(77), decl.ID)
	assert.Equal(t, model.DeathStatusPending, decl.Status)
	assert.Equal(t, "Cardiac arrest", decl.CauseOfDeath)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareDeath_NotAttendingDoctor(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectRollback()

	decl, err := c.Lifecycle.DeclareDeath(context.Background(), Actor{ID: 8, Role: "DOCTOR"}, 10,
		"2026-02-14 03:25", "Cardiac arrest", "")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, decl)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareDeath_NotAdmitted(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM admissions WHERE id = \? FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "PENDING", 9))
	mock.ExpectRollback()

	_, err := c.Lifecycle.DeclareDeath(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10,
		"2026-02-14 03:25", "Cardiac arrest", "")

	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareDeath_RejectsBadInputBeforeAnyWrite(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	cases := []struct {
		name        string
		timeOfDeath string
		cause       string
	}{
		{"slash date", "02/14/2026 03:25", "Cardiac arrest"},
		{"date only", "2026-02-14", "Cardiac arrest"},
		{"iso t separator", "2026-02-14T03:25", "Cardiac arrest"},
		{"impossible time", "2026-02-14 25:99", "Cardiac arrest"},
		{"empty cause", "2026-02-14 03:25", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Lifecycle.DeclareDeath(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10,
				tc.timeOfDeath, tc.cause, "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// No expectations were registered: validation failures never reach
	// the database.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParseDeathTime(t *testing.T) {
	got, err := parseDeathTime("2026-02-14 03:25")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 14, 3, 25, 0, 0, time.UTC), got)

	got, err = parseDeathTime(" 2026-02-14 03:25:10 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 14, 3, 25, 10, 0, time.UTC), got)

	_, err = parseDeathTime("2026-2-14 03:25")
	assert.ErrorIs(t, err, ErrValidation)
}
