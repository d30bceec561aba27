package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/wardops/hospital-coordination/internal/config"
	"github.com/wardops/hospital-coordination/internal/handler"
	"github.com/wardops/hospital-coordination/internal/middleware"
)

// RegisterShared registers read endpoints available to every
// authenticated role under /v1.  Ward listings sit behind the short-TTL
// Redis cache; admission and order views are always served live.
func RegisterShared(e *echo.Echo, pat *handler.PatientHandler, adm *handler.AdmissionHandler, ord *handler.OrderHandler, dth *handler.DeathHandler, ward *handler.WardHandler, rdb *redis.Client, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("DOCTOR", "NURSE", "ADMIN"),
	)

	// ---- Patients ----
	g.GET("/patients", pat.Search)
	g.GET("/patients/:id", pat.Get)

	// ---- Admissions ----
	g.GET("/admissions", adm.ListActive)
	g.GET("/admissions/:id", adm.Profile)
	g.GET("/admissions/:id/orders", ord.ListByAdmission)
	g.GET("/admissions/:id/death", dth.Get)

	// ---- Ward listings ----
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g.GET("/rooms", ward.ListRooms, cache)
	g.GET("/rooms/:id/beds", ward.ListRoomBeds, cache)
}
