package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/coordination"
	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/queue"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// OrderHandler exposes the clinical order queue.  Every state change maps
// to one coordination call; a conflict from the core surfaces as 409.
type OrderHandler struct {
	Coord  *coordination.Coordinator
	Orders *repository.OrderRepo
}

func NewOrderHandler(coord *coordination.Coordinator, orders *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Coord: coord, Orders: orders}
}

// orderResp is the wire form of a clinical order.
type orderResp struct {
	ID                  uint64  `json:"id"`
	AdmissionID         uint64  `json:"admission_id"`
	OrderType           string  `json:"order_type"`
	Details             string  `json:"details"`
	Frequency           string  `json:"frequency,omitempty"`
	Duration            string  `json:"duration,omitempty"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
	Status              string  `json:"status"`
	OrderedBy           uint64  `json:"ordered_by"`
	ClaimedBy           *uint64 `json:"claimed_by,omitempty"`
	ClaimedAt           *string `json:"claimed_at,omitempty"`
	CompletedBy         *uint64 `json:"completed_by,omitempty"`
	CompletedAt         *string `json:"completed_at,omitempty"`
	CompletionNote      *string `json:"completion_note,omitempty"`
	DiscontinuedBy      *uint64 `json:"discontinued_by,omitempty"`
	DiscontinueReason   *string `json:"discontinue_reason,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toOrderResp(o *model.ClinicalOrder) orderResp {
	return orderResp{
		ID:                  o.ID,
		AdmissionID:         o.AdmissionID,
		OrderType:           o.OrderType,
		Details:             o.Details,
		Frequency:           o.Frequency,
		Duration:            o.Duration,
		SpecialInstructions: o.SpecialInstructions,
		Status:              o.Status,
		OrderedBy:           o.OrderedBy,
		ClaimedBy:           o.ClaimedBy,
		ClaimedAt:           fmtTimePtr(o.ClaimedAt),
		CompletedBy:         o.CompletedBy,
		CompletedAt:         fmtTimePtr(o.CompletedAt),
		CompletionNote:      o.CompletionNote,
		DiscontinuedBy:      o.DiscontinuedBy,
		DiscontinueReason:   o.DiscontinueReason,
		CreatedAt:           o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toOrderResps(orders []model.ClinicalOrder) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResp(&orders[i]))
	}
	return out
}

// Create places a new order on an active admission.
func (h *OrderHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var spec coordination.OrderSpec
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Coord.Orders.Create(c.Request().Context(), actor, admissionID, spec)
	if err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResp(order))
}

// ListByAdmission returns every order on one admission, newest first.
func (h *OrderHandler) ListByAdmission(c echo.Context) error {
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.ListByAdmission(ctx, admissionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	return c.JSON(http.StatusOK, toOrderResps(orders))
}

// Worklist returns all ACTIVE and IN_PROGRESS orders across the ward.
func (h *OrderHandler) Worklist(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list worklist failed"})
	}
	return c.JSON(http.StatusOK, toOrderResps(orders))
}

// Claim takes an unclaimed active order for the calling nurse.  Losing
// the race against another nurse returns 409.
func (h *OrderHandler) Claim(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Coord.Orders.Claim(c.Request().Context(), actor, orderID); err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.OrderStatusInProgress})
}

// Release puts a claimed order back on the queue.
func (h *OrderHandler) Release(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Coord.Orders.Release(c.Request().Context(), actor, orderID); err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.OrderStatusActive})
}

type completeOrderReq struct {
	Note string `json:"note"`
}

// Complete finishes an order the caller holds.
func (h *OrderHandler) Complete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req completeOrderReq
	_ = c.Bind(&req)

	if err := h.Coord.Orders.Complete(c.Request().Context(), actor, orderID, strings.TrimSpace(req.Note)); err != nil {
		return coordError(c, err)
	}

	publishEvent(queue.WardEvent{
		Kind:      queue.EventOrderCompleted,
		OrderID:   orderID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Detail:    strings.TrimSpace(req.Note),
	})
	return c.JSON(http.StatusOK, echo.Map{"status": model.OrderStatusCompleted})
}

type discontinueOrderReq struct {
	Reason string `json:"reason"`
}

// Discontinue cancels an order that is still open.
func (h *OrderHandler) Discontinue(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req discontinueOrderReq
	_ = c.Bind(&req)

	if err := h.Coord.Orders.Discontinue(c.Request().Context(), actor, orderID, strings.TrimSpace(req.Reason)); err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.OrderStatusDiscontinued})
}

// ForceRelease clears the claim on a stuck order without touching its
// clinical content.  Admin only.
func (h *OrderHandler) ForceRelease(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Coord.Orders.AdminRelease(c.Request().Context(), actor, orderID); err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.OrderStatusActive})
}
