package coordination

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/wardops/hospital-coordination/internal/repository"
)

func testClock() time.Time { return time.Now().UTC().Truncate(time.Second) }

func newTestCoordinator(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Coordinator) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	c := New(db,
		repository.NewAdmissionRepo(db),
		repository.NewBedRepo(db),
		repository.NewOrderRepo(db),
		repository.NewDeathRepo(db),
	)
	return db, mock, c
}

var admissionTestColumns = []string{
	"id", "patient_id", "room_id", "bed_id", "admission_status", "admission_date",
	"expected_discharge_date", "actual_discharge_date", "attending_doctor_id", "notes",
	"created_at", "updated_at",
}

// admissionRow builds a single locked-read result.  roomID and bedID take
// nil or int so tests can express both bedded and bedless admissions.
func admissionRow(id, patientID int, roomID, bedID interface{}, status string, doctorID int) *sqlmock.Rows {
	now := testClock()
	return sqlmock.NewRows(admissionTestColumns).
		AddRow(id, patientID, roomID, bedID, status, now, nil, nil, doctorID, nil, now, now)
}

var bedTestColumns = []string{"bed_id", "bed_number", "room_id", "room_number", "room_type", "floor_number"}

func bedRow(bedID, bedNumber, roomID int, roomNumber, roomType string, floor int) *sqlmock.Rows {
	return sqlmock.NewRows(bedTestColumns).
		AddRow(bedID, bedNumber, roomID, roomNumber, roomType, floor)
}

var orderTestColumns = []string{
	"id", "admission_id", "order_type", "details", "frequency", "duration", "special_instructions",
	"status", "ordered_by", "claimed_by", "claimed_at", "completed_by", "completed_at", "completion_note",
	"discontinued_by", "discontinued_at", "discontinue_reason", "created_at", "updated_at",
}

func orderRow(id, admissionID int, orderType string, instructions interface{}, status string, orderedBy int, claimedBy interface{}) *sqlmock.Rows {
	now := testClock()
	var claimedAt interface{}
	if claimedBy != nil {
		claimedAt = now
	}
	return sqlmock.NewRows(orderTestColumns).
		AddRow(id, admissionID, orderType, "details", "", "", instructions,
			status, orderedBy, claimedBy, claimedAt, nil, nil, nil, nil, nil, nil, now, now)
}
