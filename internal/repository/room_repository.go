package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/wardops/hospital-coordination/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides methods to retrieve rooms and their occupancy.  It
// embeds a database handle to perform queries and commands.  Rooms are
// provisioned out of band (scripts/schema.sql seeds them); the service
// only reads them.
type RoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when no
// row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, room_number, room_type, floor_number, status, created_at, updated_at FROM rooms WHERE id = ?`
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rm.ID, &rm.RoomNumber, &rm.RoomType, &rm.FloorNumber, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// RoomAvailability pairs a room with its bed counts for the ward listing
// endpoints.  AvailableBeds counts beds in AVAILABLE status only;
// MAINTENANCE beds are excluded from both counts being "free" but still
// appear in TotalBeds.
type RoomAvailability struct {
	ID            uint64 `json:"id"`
	RoomNumber    string `json:"room_number"`
	RoomType      string `json:"room_type"`
	FloorNumber   int    `json:"floor_number"`
	TotalBeds     int    `json:"total_beds"`
	AvailableBeds int    `json:"available_beds"`
}

// ListWithAvailability returns all active rooms together with their total
// and available bed counts, ordered by room number.  The result backs the
// room picker used before a specific-bed assignment.
func (r *RoomRepo) ListWithAvailability(ctx context.Context) ([]RoomAvailability, error) {
	const q = `SELECT r.id, r.room_number, r.room_type, r.floor_number,
	                  COUNT(b.id), COALESCE(SUM(b.status = 'AVAILABLE'), 0)
	           FROM rooms r
	           LEFT JOIN beds b ON b.room_id = r.id
	           WHERE r.status = 'ACTIVE'
	           GROUP BY r.id, r.room_number, r.room_type, r.floor_number
	           ORDER BY r.room_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomAvailability, 0)
	for rows.Next() {
		var ra RoomAvailability
		if err := rows.Scan(&ra.ID, &ra.RoomNumber, &ra.RoomType, &ra.FloorNumber, &ra.TotalBeds, &ra.AvailableBeds); err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
