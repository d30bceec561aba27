package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/wardops/hospital-coordination/internal/config"
	"github.com/wardops/hospital-coordination/internal/coordination"
	"github.com/wardops/hospital-coordination/internal/database"
	"github.com/wardops/hospital-coordination/internal/handler"
	"github.com/wardops/hospital-coordination/internal/middleware"
	"github.com/wardops/hospital-coordination/internal/queue"
	"github.com/wardops/hospital-coordination/internal/repository"
	"github.com/wardops/hospital-coordination/internal/router"
	"github.com/wardops/hospital-coordination/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	notes, err := utils.NewNotesCipher(cfg.NotesKey)
	if err != nil {
		log.Fatalf("notes cipher: %v", err)
	}

	// Redis backs the rate limiter and the ward-listing cache; both
	// degrade to pass-through when the client is nil.
	rdb := config.NewRedisClient()

	staff := repository.NewStaffRepo(db)
	tokens := repository.NewTokenRepo(db)
	patients := repository.NewPatientRepo(db)
	rooms := repository.NewRoomRepo(db)
	beds := repository.NewBedRepo(db)
	admissions := repository.NewAdmissionRepo(db)
	orders := repository.NewOrderRepo(db)
	deaths := repository.NewDeathRepo(db)

	coord := coordination.New(db, admissions, beds, orders, deaths)

	authH := handler.NewAuthHandler(cfg, staff, tokens)
	patientH := handler.NewPatientHandler(patients)
	wardH := handler.NewWardHandler(rooms, beds)
	admissionH := handler.NewAdmissionHandler(admissions, patients, coord, notes)
	orderH := handler.NewOrderHandler(coord, orders)
	transferH := handler.NewTransferHandler(coord)
	deathH := handler.NewDeathHandler(coord, deaths)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterDoctor(e, admissionH, orderH, transferH, deathH, cfg.JWTSecret)
	router.RegisterNurse(e, orderH, transferH, cfg.JWTSecret)
	router.RegisterAdmin(e, patientH, admissionH, orderH, cfg.JWTSecret)
	router.RegisterShared(e, patientH, admissionH, orderH, deathH, wardH, rdb, cfg.JWTSecret)

	// Ward event consumer reconnects on its own; a broker outage never
	// blocks the API.
	go func() {
		if err := queue.StartWardConsumer(); err != nil {
			log.Printf("ward consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
