package config

import (
	"context"
	"fmt"
	"time"

	"accommodation/middleware"
	"accommodation/repository"
	"accommodation/services"
	"accommodation/services/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// App holds the process-wide components built from AppConfig
type App struct {
	Config   *AppConfig
	Logger   logger.Logger
	Router   *gin.Engine
	Melody   *melody.Melody
	Cron     *cron.Cron
	Store    repository.Store
	Cache    services.Cache
	Uploader services.ImageUploader
}

func InitApp(cfg *AppConfig) (*App, error) {
	log := logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel))

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(log), middleware.ErrorHandler(log))

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Request-ID")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: log,
		Router: router,
		Melody: melody.New(),
		Cron:   cron.New(cron.WithLocation(cfg.Location)),
	}
	if err := app.initComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return app, nil
}

func (a *App) initComponents() error {
	if a.Config.IsLocal() {
		// SQLite compares timestamps as text, keep every value in one zone
		time.Local = a.Config.Location
		store, err := repository.NewSQLiteStore(repository.SQLiteDSN(a.Config.SQLitePath))
		if err != nil {
			return err
		}
		a.Store = store
		a.Cache = services.NopCache{}
		a.Logger.Info("running on sqlite at %s", a.Config.SQLitePath)
		return nil
	}

	db, err := ConnectDB(a.Config.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.Store = repository.NewGormStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := ConnectRedis(ctx, a.Config)
	if err != nil {
		return err
	}
	a.Cache = services.NewRedisCache(rdb)

	cld, err := ConnectCloudinary(a.Config)
	if err != nil {
		a.Logger.Error("image upload disabled: %v", err)
	} else {
		a.Uploader = services.NewCloudinaryUploader(cld)
	}

	a.Logger.Info("All components initialized successfully")
	return nil
}
