package models

import (
	"fmt"
	"time"

	"accommodation/constants"

	"github.com/google/uuid"
)

type Property struct {
	ID           string         `json:"propertyId" gorm:"primaryKey;size:32"`
	Name         string         `json:"propertyName" gorm:"not null"`
	Type         int            `json:"type"`
	Address      string         `json:"address"`
	Province     string         `json:"province" gorm:"index"`
	Description  string         `json:"description"`
	Images       StringArray    `json:"images"`
	TotalRoom    int            `json:"totalRoom"`
	ActiveRoom   int            `json:"activeRoom"`
	Income       int64          `json:"income"` // cached fold of income_entries
	ActiveStatus int            `json:"activeStatus" gorm:"default:1"`
	OwnerID      uuid.UUID      `json:"ownerId" gorm:"type:uuid;index"`
	OwnerName    string         `json:"ownerName"`
	CreatedAt    time.Time      `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updatedDate" gorm:"autoUpdateTime"`
}

func (p *Property) ValidateType() error {
	if p.Type < constants.PropertyTypeHotel || p.Type > constants.PropertyTypeApartment {
		return fmt.Errorf("invalid type: %d, must be between 0 and 2", p.Type)
	}
	return nil
}

func (p *Property) IsActive() bool {
	return p.ActiveStatus == constants.ActiveStatusActive
}

func (p *Property) TypeString() string {
	return constants.PropertyTypeLabel(p.Type)
}
