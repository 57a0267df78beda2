package models

import (
	"fmt"
	"time"

	"accommodation/constants"
)

type Room struct {
	ID                 string     `json:"roomId" gorm:"primaryKey;size:64"`
	RoomTypeID         string     `json:"roomTypeId" gorm:"index"`
	PropertyID         string     `json:"propertyId" gorm:"index"`
	Floor              int        `json:"floor"`
	Name               string     `json:"name"`
	AvailabilityStatus int        `json:"availabilityStatus" gorm:"default:1"`
	ActiveRoom         int        `json:"activeRoom" gorm:"default:1"`
	MaintenanceStart   *time.Time `json:"maintenanceStart,omitempty"`
	MaintenanceEnd     *time.Time `json:"maintenanceEnd,omitempty"`
	CreatedAt          time.Time  `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `json:"updatedDate" gorm:"autoUpdateTime"`
}

func (r *Room) ValidateStatus() error {
	if r.AvailabilityStatus != constants.RoomStatusBooked && r.AvailabilityStatus != constants.RoomStatusAvailable {
		return fmt.Errorf("invalid availability status: %d", r.AvailabilityStatus)
	}
	return nil
}

func (r *Room) IsActive() bool {
	return r.ActiveRoom == constants.ActiveStatusActive
}

// UnderMaintenance reports whether t falls inside the room's maintenance window.
func (r *Room) UnderMaintenance(t time.Time) bool {
	if r.MaintenanceStart == nil || r.MaintenanceEnd == nil {
		return false
	}
	return !t.Before(*r.MaintenanceStart) && t.Before(*r.MaintenanceEnd)
}
