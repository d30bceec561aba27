package model

import "time"

// Room statuses.  A room must be ACTIVE for any of its beds to be
// handed out by the allocator.
const (
    RoomStatusActive   = "ACTIVE"
    RoomStatusInactive = "INACTIVE"
)

// Room types recognised by the admission workflow.  The allocator treats
// the type only as a preference bias, never as a hard constraint.
const (
    RoomTypePrivate     = "PRIVATE"
    RoomTypeSemiPrivate = "SEMI_PRIVATE"
    RoomTypeWard        = "WARD"
    RoomTypeLabor       = "LABOR"
    RoomTypeDelivery    = "DELIVERY"
    RoomTypeSurgery     = "SURGERY"
)

// Room describes a physical hospital room which owns zero or more beds.
//
// Fields:
//  ID          – primary key identifier.
//  RoomNumber  – human readable room label, unique per hospital.
//  RoomType    – category of the room (PRIVATE, SEMI_PRIVATE, WARD, ...).
//  FloorNumber – floor where the room is located.
//  Status      – whether the room is in service (ACTIVE, INACTIVE).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Room struct {
    ID          uint64    // rooms.id
    RoomNumber  string    // rooms.room_number
    RoomType    string    // rooms.room_type
    FloorNumber int       // rooms.floor_number
    Status      string    // rooms.status
    CreatedAt   time.Time // rooms.created_at
    UpdatedAt   time.Time // rooms.updated_at
}

// ValidRoomType reports whether t is a recognised room type.
func ValidRoomType(t string) bool {
    switch t {
    case RoomTypePrivate, RoomTypeSemiPrivate, RoomTypeWard,
        RoomTypeLabor, RoomTypeDelivery, RoomTypeSurgery:
        return true
    }
    return false
}
