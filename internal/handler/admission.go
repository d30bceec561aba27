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
	"github.com/wardops/hospital-coordination/internal/utils"
)

// AdmissionHandler serves the admission lifecycle: intake, bed
// assignment, profile views and discharge.  State transitions go through
// the coordination core; this layer only binds requests, encrypts notes
// and publishes events after commits.
type AdmissionHandler struct {
	Admissions *repository.AdmissionRepo
	Patients   *repository.PatientRepo
	Coord      *coordination.Coordinator
	Notes      *utils.NotesCipher
}

func NewAdmissionHandler(a *repository.AdmissionRepo, p *repository.PatientRepo, coord *coordination.Coordinator, notes *utils.NotesCipher) *AdmissionHandler {
	return &AdmissionHandler{Admissions: a, Patients: p, Coord: coord, Notes: notes}
}

type createAdmissionReq struct {
	PatientID             uint64 `json:"patient_id"`
	ExpectedDischargeDate string `json:"expected_discharge_date"` // YYYY-MM-DD, optional
	Notes                 string `json:"notes"`
}

// Create opens a PENDING admission for a patient.  The admission holds no
// bed until an assignment succeeds.  Notes are encrypted before storage.
func (h *AdmissionHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createAdmissionReq
	if err := c.Bind(&req); err != nil || req.PatientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Patients.GetByID(ctx, req.PatientID); err != nil {
		return coordError(c, err)
	}

	adm := &model.Admission{
		PatientID:         req.PatientID,
		AttendingDoctorID: actor.ID,
	}
	if s := strings.TrimSpace(req.ExpectedDischargeDate); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expected_discharge_date must be YYYY-MM-DD"})
		}
		adm.ExpectedDischargeDate = &d
	}
	if n := strings.TrimSpace(req.Notes); n != "" {
		enc, err := h.Notes.Encrypt(n)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encrypt notes failed"})
		}
		adm.Notes = &enc
	}

	if err := h.Admissions.Create(ctx, adm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admission failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":                  adm.ID,
		"patient_id":          adm.PatientID,
		"status":              adm.Status,
		"attending_doctor_id": adm.AttendingDoctorID,
	})
}

type assignBedReq struct {
	RoomType string `json:"room_type"`
	Floor    int    `json:"floor"`
}

// AssignBed assigns the best available bed to a pending admission,
// biased toward the requested room type and floor.
func (h *AdmissionHandler) AssignBed(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var req assignBedReq
	_ = c.Bind(&req)

	bed, err := h.Coord.Allocator.AssignBed(c.Request().Context(), actor, admissionID,
		coordination.BedPreference{RoomType: strings.ToUpper(strings.TrimSpace(req.RoomType)), Floor: req.Floor})
	if err != nil {
		return coordError(c, err)
	}

	publishEvent(queue.WardEvent{
		Kind:        queue.EventAdmissionAdmitted,
		AdmissionID: admissionID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		RoomNumber:  bed.RoomNumber,
		BedNumber:   bed.BedNumber,
	})
	return c.JSON(http.StatusOK, bed)
}

type assignRoomReq struct {
	RoomID uint64 `json:"room_id"`
}

// AssignRoom assigns a bed in a caller-chosen room.  Availability is
// re-validated under lock, so a stale room listing yields a 409 rather
// than a double booking.
func (h *AdmissionHandler) AssignRoom(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var req assignRoomReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}

	bed, err := h.Coord.Allocator.AssignSpecificBed(c.Request().Context(), actor, admissionID, req.RoomID)
	if err != nil {
		return coordError(c, err)
	}

	publishEvent(queue.WardEvent{
		Kind:        queue.EventAdmissionAdmitted,
		AdmissionID: admissionID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		RoomNumber:  bed.RoomNumber,
		BedNumber:   bed.BedNumber,
	})
	return c.JSON(http.StatusOK, bed)
}

type dischargeReq struct {
	DischargeTime string `json:"discharge_time"` // YYYY-MM-DD HH:MM[:SS], optional; defaults to now
}

// Discharge closes the admission and frees its bed.  Repeating the call
// succeeds without further effect.
func (h *AdmissionHandler) Discharge(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}
	var req dischargeReq
	_ = c.Bind(&req)

	when := time.Now().UTC()
	if s := strings.TrimSpace(req.DischargeTime); s != "" {
		layout := "2006-01-02 15:04"
		if len(s) == len("2006-01-02 15:04:05") {
			layout = "2006-01-02 15:04:05"
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "discharge_time must be YYYY-MM-DD HH:MM[:SS]"})
		}
		when = t.UTC()
	}

	if err := h.Coord.Lifecycle.Discharge(c.Request().Context(), actor, admissionID, when); err != nil {
		return coordError(c, err)
	}

	publishEvent(queue.WardEvent{
		Kind:        queue.EventAdmissionDischarged,
		AdmissionID: admissionID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
	})
	return c.JSON(http.StatusOK, echo.Map{"status": model.AdmissionStatusDischarged})
}

// Profile returns the admission joined with its patient and current
// room/bed.  Notes are decrypted for display.
func (h *AdmissionHandler) Profile(c echo.Context) error {
	admissionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prof, err := h.Admissions.GetProfile(ctx, admissionID)
	if err != nil {
		return coordError(c, err)
	}
	if prof.Notes != nil {
		plain, err := h.Notes.Decrypt(*prof.Notes)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decrypt notes failed"})
		}
		prof.Notes = &plain
	}
	return c.JSON(http.StatusOK, prof)
}

// ListActive returns profiles for all not-yet-discharged admissions.
func (h *AdmissionHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profs, err := h.Admissions.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list admissions failed"})
	}
	return c.JSON(http.StatusOK, profs)
}
