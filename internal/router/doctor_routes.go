package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/handler"
	"github.com/wardops/hospital-coordination/internal/middleware"
)

// RegisterDoctor registers DOCTOR-scoped endpoints under /v1.
// All routes require a valid JWT and DOCTOR role.
func RegisterDoctor(e *echo.Echo, adm *handler.AdmissionHandler, ord *handler.OrderHandler, tr *handler.TransferHandler, dth *handler.DeathHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("DOCTOR"),
	)

	// ---- Admissions ----
	g.POST("/admissions", adm.Create)
	g.POST("/admissions/:id/discharge", adm.Discharge)
	g.POST("/admissions/:id/death", dth.Declare)

	// ---- Orders ----
	g.POST("/admissions/:id/orders", ord.Create)
	g.POST("/orders/:id/discontinue", ord.Discontinue)

	// ---- Transfers ----
	g.POST("/admissions/:id/transfer", tr.Request)
}
