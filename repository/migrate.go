package repository

import (
	"accommodation/models"

	"gorm.io/gorm"
)

// Migrate creates or alters the tables of every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.RoomType{},
		&models.Room{},
		&models.Customer{},
		&models.Booking{},
		&models.Maintenance{},
		&models.Review{},
		&models.IncomeEntry{},
	)
}
