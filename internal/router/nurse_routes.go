package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/handler"
	"github.com/wardops/hospital-coordination/internal/middleware"
)

// RegisterNurse registers NURSE-scoped endpoints under /v1.
// All routes require a valid JWT and NURSE role.
func RegisterNurse(e *echo.Echo, ord *handler.OrderHandler, tr *handler.TransferHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("NURSE"),
	)

	// ---- Worklist ----
	g.GET("/orders/worklist", ord.Worklist)

	// ---- Order claim lifecycle ----
	// Claim, release and complete are single conditional updates; losing a
	// race surfaces as 409, never as a double execution.
	g.POST("/orders/:id/claim", ord.Claim)
	g.POST("/orders/:id/release", ord.Release)
	g.POST("/orders/:id/complete", ord.Complete)

	// ---- Transfers ----
	g.POST("/admissions/:id/transfer/execute", tr.Execute)
}
