package model

import "time"

// Bed statuses.  A bed is OCCUPIED exactly when one admitted admission
// references it; the coordination core is the only writer of this column.
const (
    BedStatusAvailable   = "AVAILABLE"
    BedStatusOccupied    = "OCCUPIED"
    BedStatusMaintenance = "MAINTENANCE"
)

// Bed describes a physical bed inside a room.  Beds are uniquely
// identified by their room and bed number.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room owning this bed.
//  BedNumber – number of the bed within the room.
//  Status    – AVAILABLE, OCCUPIED or MAINTENANCE.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Bed struct {
    ID        uint64    // beds.id
    RoomID    uint64    // beds.room_id
    BedNumber int       // beds.bed_number
    Status    string    // beds.status
    CreatedAt time.Time // beds.created_at
    UpdatedAt time.Time // beds.updated_at
}
