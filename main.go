package main

import (
	"log"

	"accommodation/config"
	"accommodation/controllers"
	"accommodation/jobs"
	"accommodation/routes"
	"accommodation/services"
	"accommodation/services/logger"
	"accommodation/services/notification"
	"accommodation/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := config.InitApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer func() { _ = logger.Sync(app.Logger) }()

	if err := validator.RegisterBindings(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	svc := services.NewServices(services.Deps{
		Store:         app.Store,
		Cache:         app.Cache,
		Uploader:      app.Uploader,
		Notifier:      notification.NewMelodyService(app.Melody),
		Logger:        app.Logger,
		Location:      cfg.Location,
		BreakfastRate: cfg.BreakfastRate,
	}, services.NewTokenService(cfg.JWTSecret))

	if err := jobs.InitCronJobs(app.Cron, cfg.AutoCheckInSchedule, svc.Bookings, app.Logger); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}
	defer app.Cron.Stop()

	routes.SetupRoutes(app.Router, svc, controllers.NewController(svc, cfg.Location), app.Melody)

	app.Logger.Info("Server starting on port %s...", cfg.Port)
	if err := app.Router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
