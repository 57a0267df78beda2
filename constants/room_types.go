package constants

import "strings"

// Room type names a property of each type may offer.
var RoomTypeCatalogue = map[int][]string{
	PropertyTypeHotel:     {"Single Room", "Double Room", "Deluxe Room", "Superior Room", "Suite", "Family Room"},
	PropertyTypeVilla:     {"Luxury", "Beachfront", "Pool Villa", "Mountain View"},
	PropertyTypeApartment: {"Studio", "One Bedroom", "Two Bedroom", "Penthouse"},
}

// IsValidRoomTypeName matches case-insensitively against the catalogue.
func IsValidRoomTypeName(propertyType int, name string) bool {
	for _, n := range RoomTypeCatalogue[propertyType] {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
