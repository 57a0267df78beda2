package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `json:"customerId" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex:idx_customer_email,where:email <> ''"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedDate" gorm:"autoUpdateTime"`
}
