package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/handler"
	"github.com/wardops/hospital-coordination/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, pat *handler.PatientHandler, adm *handler.AdmissionHandler, ord *handler.OrderHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Patients ----
	g.POST("/patients", pat.Create)

	// ---- Bed assignment ----
	g.POST("/admissions/:id/assign-bed", adm.AssignBed)
	g.POST("/admissions/:id/assign-room", adm.AssignRoom)

	// ---- Stuck orders ----
	// Clears the claim without completing or cancelling the order.
	g.POST("/orders/:id/force-release", ord.ForceRelease)
}
