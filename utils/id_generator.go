package utils

import (
	"fmt"
	"strings"
	"time"

	"accommodation/constants"

	"github.com/google/uuid"
)

func propertyPrefix(propertyType int) string {
	switch propertyType {
	case constants.PropertyTypeHotel:
		return "HOT"
	case constants.PropertyTypeVilla:
		return "VIL"
	case constants.PropertyTypeApartment:
		return "APT"
	default:
		return "UNK"
	}
}

// MaxUnitsPerFloor keeps <floor><unit%02d> room numbers unambiguous.
const MaxUnitsPerFloor = 99

// PropertyID builds e.g. HOT-7A2F-001 from type, owner and the property sequence number.
func PropertyID(propertyType int, ownerID uuid.UUID, seq int) string {
	compact := strings.ToUpper(strings.ReplaceAll(ownerID.String(), "-", ""))
	return fmt.Sprintf("%s-%s-%03d", propertyPrefix(propertyType), compact[len(compact)-4:], seq)
}

// PropertySuffix is the sequence segment of a property id, 1001 for HOT-7A2F-1001.
func PropertySuffix(propertyID string) string {
	return lastSegment(propertyID)
}

func RoomTypeID(propertyID, name string, floor int) string {
	return fmt.Sprintf("%s-%s-%d", PropertySuffix(propertyID), strings.TrimSpace(name), floor)
}

// RoomID numbers rooms per floor: unit 3 on floor 2 is <propertyId>-203.
func RoomID(propertyID string, floor, unit int) string {
	return fmt.Sprintf("%s-%d%02d", propertyID, floor, unit)
}

// RoomUnit is the trailing dash segment of a room id.
func RoomUnit(roomID string) string {
	return lastSegment(roomID)
}

func lastSegment(id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// BookingID is unique per room up to the centisecond.
func BookingID(roomID string, at time.Time) string {
	centis := at.Nanosecond() / int(10*time.Millisecond)
	return fmt.Sprintf("BOOK-%s-%s.%02d", RoomUnit(roomID), at.Format("060102-1504-05"), centis)
}

// MaintenanceID is unique per room up to the centisecond.
func MaintenanceID(roomID string, at time.Time) string {
	centis := at.Nanosecond() / int(10*time.Millisecond)
	return fmt.Sprintf("MNT-%s-%s.%02d", RoomUnit(roomID), at.Format("060102-150405"), centis)
}
