package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"accommodation/constants"

	"github.com/joho/godotenv"
)

// AppConfig is read once from the environment (and .env when present)
type AppConfig struct {
	Env  string
	Port string

	DatabaseDSN string
	SQLitePath  string

	RedisAddr     string
	RedisUser     string
	RedisPassword string

	CloudinaryURL string
	JWTSecret     string

	AutoCheckInSchedule string
	LogLevel            string
	Location            *time.Location
	BreakfastRate       int64
}

// IsLocal runs the gorm store on a SQLite file, with no Redis or Cloudinary
func (c *AppConfig) IsLocal() bool {
	return c.Env == "local"
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() (*AppConfig, error) {
	LoadEnv()

	cfg := &AppConfig{
		Env:                 GetEnv("ENV", "local"),
		Port:                GetEnv("PORT", "8083"),
		SQLitePath:          GetEnv("SQLITE_PATH", "accommodation.db"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisUser:           os.Getenv("REDIS_USER"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AutoCheckInSchedule: GetEnv("AUTO_CHECKIN_CRON", constants.DefaultAutoCheckInSchedule),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		BreakfastRate:       constants.DefaultBreakfastRate,
	}

	loc, err := time.LoadLocation(GetEnv("TIMEZONE", constants.DefaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if raw := os.Getenv("BREAKFAST_RATE"); raw != "" {
		rate, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("invalid BREAKFAST_RATE %q", raw)
		}
		cfg.BreakfastRate = rate
	}

	if !cfg.IsLocal() {
		dsn, err := getDBConfigByEnv(cfg.Env, loc.String())
		if err != nil {
			return nil, err
		}
		cfg.DatabaseDSN = dsn
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
	}
	return cfg, nil
}
