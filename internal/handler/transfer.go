package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/coordination"
	"github.com/wardops/hospital-coordination/internal/queue"
)

// TransferHandler serves room transfers: a doctor requests one as a
// tagged order, a nurse executes it against a destination room.
type TransferHandler struct {
	Coord *coordination.Coordinator
}

func NewTransferHandler(coord *coordination.Coordinator) *TransferHandler {
	return &TransferHandler{Coord: coord}
}

type requestTransferReq struct {
	Notes string `json:"notes"`
}

// Request opens a transfer order on an admitted patient.
func (h *TransferHandler) Request(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var req requestTransferReq
	_ = c.Bind(&req)

	order, err := h.Coord.Transfers.RequestTransfer(c.Request().Context(), actor, admissionID, strings.TrimSpace(req.Notes))
	if err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResp(order))
}

type executeTransferReq struct {
	OrderID           uint64 `json:"order_id"`
	DestinationRoomID uint64 `json:"destination_room_id"`
}

// Execute moves the patient into an available bed in the destination
// room and completes the transfer order, all in one transaction.
func (h *TransferHandler) Execute(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var req executeTransferReq
	if err := c.Bind(&req); err != nil || req.OrderID == 0 || req.DestinationRoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id and destination_room_id required"})
	}

	bed, err := h.Coord.Transfers.ExecuteTransfer(c.Request().Context(), actor, admissionID, req.OrderID, req.DestinationRoomID)
	if err != nil {
		return coordError(c, err)
	}

	publishEvent(queue.WardEvent{
		Kind:        queue.EventOrderCompleted,
		AdmissionID: admissionID,
		OrderID:     req.OrderID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		RoomNumber:  bed.RoomNumber,
		BedNumber:   bed.BedNumber,
		Detail:      fmt.Sprintf("Transferred to room %s bed %d", bed.RoomNumber, bed.BedNumber),
	})
	return c.JSON(http.StatusOK, bed)
}
