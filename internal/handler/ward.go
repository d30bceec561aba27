package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/repository"
)

// WardHandler serves the read-only room and bed views.  These endpoints
// sit behind the redis response cache: a count that is a few seconds
// stale only costs one failed assignment attempt, which the allocator's
// under-lock re-check already absorbs.
type WardHandler struct {
	Rooms *repository.RoomRepo
	Beds  *repository.BedRepo
}

func NewWardHandler(rooms *repository.RoomRepo, beds *repository.BedRepo) *WardHandler {
	return &WardHandler{Rooms: rooms, Beds: beds}
}

// ListRooms returns all active rooms with their bed availability counts.
func (h *WardHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.ListWithAvailability(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, rooms)
}

type bedResp struct {
	ID        uint64 `json:"id"`
	BedNumber int    `json:"bed_number"`
	Status    string `json:"status"`
}

// ListRoomBeds returns the beds of one room with their statuses.
func (h *WardHandler) ListRoomBeds(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return coordError(c, err)
	}
	beds, err := h.Beds.ListByRoom(ctx, roomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list beds failed"})
	}
	out := make([]bedResp, 0, len(beds))
	for _, b := range beds {
		out = append(out, bedResp{ID: b.ID, BedNumber: b.BedNumber, Status: b.Status})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room": echo.Map{
			"id":           room.ID,
			"room_number":  room.RoomNumber,
			"room_type":    room.RoomType,
			"floor_number": room.FloorNumber,
			"status":       room.Status,
		},
		"beds": out,
	})
}
