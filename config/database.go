package config

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// getDBConfigByEnv reads <ENV>_DB_* for dev, qc and prod
func getDBConfigByEnv(env, timezone string) (string, error) {
	var prefix string
	switch env {
	case "dev", "qc", "prod":
		prefix = strings.ToUpper(env) + "_DB_"
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}

	sslmode := GetEnv(prefix+"SSLMODE", "require")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		os.Getenv(prefix+"HOST"), os.Getenv(prefix+"USER"), os.Getenv(prefix+"PASSWORD"),
		os.Getenv(prefix+"NAME"), os.Getenv(prefix+"PORT"), sslmode, timezone)
	return dsn, nil
}

func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}
	return db, nil
}
