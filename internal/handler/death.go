package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/coordination"
	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/queue"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// DeathHandler serves death declarations.  Declaring is restricted to
// the attending doctor; the coordination core enforces that.
type DeathHandler struct {
	Coord  *coordination.Coordinator
	Deaths *repository.DeathRepo
}

func NewDeathHandler(coord *coordination.Coordinator, deaths *repository.DeathRepo) *DeathHandler {
	return &DeathHandler{Coord: coord, Deaths: deaths}
}

type declareDeathReq struct {
	TimeOfDeath  string `json:"time_of_death"` // YYYY-MM-DD HH:MM[:SS]
	CauseOfDeath string `json:"cause_of_death"`
	Notes        string `json:"notes"`
}

type deathResp struct {
	ID           uint64  `json:"id"`
	AdmissionID  uint64  `json:"admission_id"`
	PatientID    uint64  `json:"patient_id"`
	DeclaredBy   uint64  `json:"declared_by"`
	TimeOfDeath  string  `json:"time_of_death"`
	CauseOfDeath string  `json:"cause_of_death"`
	Notes        *string `json:"notes,omitempty"`
	Status       string  `json:"status"`
}

func toDeathResp(d *model.DeathDeclaration) deathResp {
	return deathResp{
		ID:           d.ID,
		AdmissionID:  d.AdmissionID,
		PatientID:    d.PatientID,
		DeclaredBy:   d.DeclaredBy,
		TimeOfDeath:  d.TimeOfDeath.Format("2006-01-02 15:04:05"),
		CauseOfDeath: d.CauseOfDeath,
		Notes:        d.Notes,
		Status:       d.Status,
	}
}

// Declare records a death, discharges the admission and discontinues its
// open orders in one transaction.
func (h *DeathHandler) Declare(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var req declareDeathReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	decl, err := h.Coord.Lifecycle.DeclareDeath(c.Request().Context(), actor, admissionID,
		strings.TrimSpace(req.TimeOfDeath), strings.TrimSpace(req.CauseOfDeath), strings.TrimSpace(req.Notes))
	if err != nil {
		return coordError(c, err)
	}

	publishEvent(queue.WardEvent{
		Kind:        queue.EventAdmissionDischarged,
		AdmissionID: admissionID,
		PatientID:   decl.PatientID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Detail:      "death declared",
	})
	return c.JSON(http.StatusCreated, toDeathResp(decl))
}

// Get returns the declaration recorded for an admission, if any.
func (h *DeathHandler) Get(c echo.Context) error {
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	decl, err := h.Deaths.GetByAdmission(ctx, admissionID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no death declaration for admission"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, toDeathResp(decl))
}
