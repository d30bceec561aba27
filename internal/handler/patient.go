package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// PatientHandler serves patient demographic CRUD.  Plain record-keeping;
// the coordination core references patients only by ID.
type PatientHandler struct {
	Patients *repository.PatientRepo
}

func NewPatientHandler(p *repository.PatientRepo) *PatientHandler {
	return &PatientHandler{Patients: p}
}

type patientResp struct {
	ID            uint64 `json:"id"`
	PatientNumber string `json:"patient_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

func toPatientResp(p *model.Patient) patientResp {
	out := patientResp{
		ID:            p.ID,
		PatientNumber: p.PatientNumber,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Gender:        p.Gender,
		Phone:         p.Phone,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = p.DateOfBirth.Format("2006-01-02")
	}
	return out
}

type createPatientReq struct {
	PatientNumber string `json:"patient_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"` // YYYY-MM-DD, optional
	Gender        string `json:"gender"`
	Phone         string `json:"phone"`
}

// Create registers a new patient record.
func (h *PatientHandler) Create(c echo.Context) error {
	var req createPatientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PatientNumber = strings.TrimSpace(req.PatientNumber)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.PatientNumber == "" || req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient_number/first_name/last_name required"})
	}

	p := &model.Patient{
		PatientNumber: req.PatientNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        strings.TrimSpace(req.Gender),
		Phone:         strings.TrimSpace(req.Phone),
	}
	if s := strings.TrimSpace(req.DateOfBirth); s != "" {
		dob, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		p.DateOfBirth = &dob
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Patients.Create(ctx, p); err != nil {
		if err == repository.ErrPatientNumberExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "patient number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create patient failed"})
	}
	return c.JSON(http.StatusCreated, toPatientResp(p))
}

// Get returns one patient by ID.
func (h *PatientHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid patient id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Patients.GetByID(ctx, id)
	if err != nil {
		return coordError(c, err)
	}
	return c.JSON(http.StatusOK, toPatientResp(p))
}

// Search matches patients by exact number or partial name.
func (h *PatientHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patients, err := h.Patients.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	out := make([]patientResp, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResp(&patients[i]))
	}
	return c.JSON(http.StatusOK, out)
}
