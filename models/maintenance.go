package models

import (
	"time"

	"accommodation/constants"
)

type Maintenance struct {
	ID           string    `json:"maintenanceId" gorm:"primaryKey;size:64"`
	RoomID       string    `json:"roomId" gorm:"index"`
	StartAt      time.Time `json:"start"`
	EndAt        time.Time `json:"end"`
	ActiveStatus int       `json:"activeStatus" gorm:"default:1"`
	CreatedAt    time.Time `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedDate" gorm:"autoUpdateTime"`
}

func (m *Maintenance) IsActive() bool {
	return m.ActiveStatus == constants.ActiveStatusActive
}

func (m *Maintenance) Overlaps(start, end time.Time) bool {
	return m.StartAt.Before(end) && m.EndAt.After(start)
}
