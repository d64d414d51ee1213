package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/docwell/docwell-backend/cache"
	"github.com/docwell/docwell-backend/config"
	"github.com/docwell/docwell-backend/controllers"
	"github.com/docwell/docwell-backend/cron"
	"github.com/docwell/docwell-backend/db"
	"github.com/docwell/docwell-backend/mailer"
	"github.com/docwell/docwell-backend/routes"
	"github.com/docwell/docwell-backend/scheduler"
	"github.com/docwell/docwell-backend/utils"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database ready")

	slotCache := cache.New(cfg.RedisAddr, log)
	defer slotCache.Close()

	mail := mailer.New(cfg, log)
	sched := scheduler.New(database)

	uploader, err := utils.NewUploader(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure uploads")
	}

	deps := routes.Deps{
		Auth:   &controllers.AuthController{DB: database, JWTSecret: cfg.JWTSecret},
		Doctor: &controllers.DoctorController{DB: database, Uploader: uploader, Now: time.Now},
		Availability: &controllers.AvailabilityController{
			DB:    database,
			Cache: slotCache,
		},
		Appointment: &controllers.AppointmentController{
			DB:     database,
			Sched:  sched,
			Cache:  slotCache,
			Mailer: mail,
		},
		JWTSecret: cfg.JWTSecret,
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	routes.Setup(app, deps)

	jobs := cron.New(database, mail, slotCache, log)
	if err := jobs.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start cron jobs")
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	jobs.Stop()
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
