package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/coordination"
	"github.com/wardops/hospital-coordination/internal/queue"
	"github.com/wardops/hospital-coordination/internal/repository"
	queue_publisher "github.com/wardops/hospital-coordination/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims decode as float64; other representations are handled for
// robustness.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentActor builds the explicit actor passed into every coordination
// operation from the claims JWTAuth stored in the context.
func currentActor(c echo.Context) (coordination.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return coordination.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return coordination.Actor{ID: id, Role: role}, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// coordError maps coordination and repository sentinel errors to HTTP
// responses.  Conflict outcomes (lost claim races, full rooms, stale
// states) are ordinary results of concurrent use and map to 409; they are
// never logged as faults.
func coordError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, coordination.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, coordination.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, coordination.ErrInvalidState),
		errors.Is(err, coordination.ErrNoBedAvailable),
		errors.Is(err, coordination.ErrAlreadyClaimed),
		errors.Is(err, coordination.ErrNotClaimant),
		errors.Is(err, coordination.ErrInvalidOrder):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrAdmissionNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrPatientNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrBedNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// publishEvent fires a ward event on its own goroutine after a commit.
// Delivery is best-effort; the publisher logs its own failures.
func publishEvent(ev queue.WardEvent) {
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishWardEvent(ctx, ev)
	}()
}
