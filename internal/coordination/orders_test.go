package coordination

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardops/hospital-coordination/internal/model"
)

func TestOrderCreate_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admissions WHERE id = \?`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, 5, 12, "ADMITTED", 9))
	mock.ExpectExec(`INSERT INTO clinical_orders`).
		WithArgs(10, "MEDICATION", "Paracetamol 500mg", "twice daily", "5 days", nil, 9).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery(`FROM clinical_orders WHERE id = \?`).
		WithArgs(31).
		WillReturnRows(orderRow(31, 10, "MEDICATION", nil, "ACTIVE", 9, nil))

	o, err := c.Orders.Create(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, OrderSpec{
		OrderType: "MEDICATION",
		Details:   "Paracetamol 500mg",
		Frequency: "twice daily",
		Duration:  "5 days",
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(31), o.ID)
	assert.Equal(t, model.OrderStatusActive, o.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreate_InvalidInput(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	_, err := c.Orders.Create(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, OrderSpec{
		OrderType: "HOMEOPATHY",
		Details:   "anything",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.Orders.Create(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, OrderSpec{
		OrderType: "MEDICATION",
		Details:   "   ",
	})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreate_DischargedAdmission(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admissions WHERE id = \?`).
		WithArgs(10).
		WillReturnRows(admissionRow(10, 4, nil, nil, "DISCHARGED", 9))

	_, err := c.Orders.Create(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 10, OrderSpec{
		OrderType: "LAB_TEST",
		Details:   "CBC panel",
	})

	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim_FirstWriterWins(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(3, 31).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.Orders.Claim(context.Background(), Actor{ID: 3, Role: "NURSE"}, 31)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim_LostRace(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	// Zero rows covers every losing case at once: another nurse got
	// there first, the order is no longer ACTIVE, or it never existed.
	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(3, 31).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := c.Orders.Claim(context.Background(), Actor{ID: 3, Role: "NURSE"}, 31)

	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(31, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.Orders.Release(context.Background(), Actor{ID: 3, Role: "NURSE"}, 31)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_NotClaimant(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(31, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := c.Orders.Release(context.Background(), Actor{ID: 4, Role: "NURSE"}, 31)

	assert.ErrorIs(t, err, ErrNotClaimant)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(3, "administered as ordered", 31, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.Orders.Complete(context.Background(), Actor{ID: 3, Role: "NURSE"}, 31, "administered as ordered")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete_NotClaimant(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(4, "done", 31, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := c.Orders.Complete(context.Background(), Actor{ID: 4, Role: "NURSE"}, 31, "done")

	assert.ErrorIs(t, err, ErrNotClaimant)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscontinue_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(9, "adverse reaction", 31).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.Orders.Discontinue(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 31, "adverse reaction")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscontinue_EmptyReason(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	err := c.Orders.Discontinue(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 31, "  ")

	assert.ErrorIs(t, err, ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscontinue_AlreadyTerminal(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(9, "adverse reaction", 31).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := c.Orders.Discontinue(context.Background(), Actor{ID: 9, Role: "DOCTOR"}, 31, "adverse reaction")

	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRelease_Success(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(31).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := c.Orders.AdminRelease(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 31)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRelease_NotInProgress(t *testing.T) {
	db, mock, c := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE clinical_orders`).
		WithArgs(31).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := c.Orders.AdminRelease(context.Background(), Actor{ID: 1, Role: "ADMIN"}, 31)

	assert.ErrorIs(t, err, ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}
