package models

import (
	"time"

	"accommodation/constants"

	"gorm.io/datatypes"
)

// RoomType groups rooms on one floor of a property sharing price and capacity.
// Name and Floor are unique within a property.
type RoomType struct {
	ID           string         `json:"roomTypeId" gorm:"primaryKey;size:128"`
	PropertyID   string         `json:"propertyId" gorm:"index;uniqueIndex:idx_room_type_name_floor"`
	Name         string         `json:"name" gorm:"uniqueIndex:idx_room_type_name_floor"`
	Floor        int            `json:"floor" gorm:"uniqueIndex:idx_room_type_name_floor"`
	Price        int64          `json:"price"`
	Capacity     int            `json:"capacity"`
	Facility     string         `json:"facility"`
	Facilities   datatypes.JSON `json:"facilities"`
	Description  string         `json:"description"`
	ActiveStatus int            `json:"activeStatus" gorm:"default:1"`
	CreatedAt    time.Time      `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updatedDate" gorm:"autoUpdateTime"`
}

func (rt *RoomType) IsActive() bool {
	return rt.ActiveStatus == constants.ActiveStatusActive
}
