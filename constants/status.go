package constants

import "strings"

// Active flag
const (
	ActiveStatusInactive = 0
	ActiveStatusActive   = 1
)

// Room availability
const (
	RoomStatusBooked    = 0
	RoomStatusAvailable = 1
)

// Property type
const (
	PropertyTypeHotel     = 0
	PropertyTypeVilla     = 1
	PropertyTypeApartment = 2
)

// Roles carried in the identity token
const (
	RoleSuperadmin = "Superadmin"
	RoleOwner      = "Accommodation Owner"
	RoleCustomer   = "Customer"
)

var roleAliases = map[string]string{
	"superadmin":         RoleSuperadmin,
	"admin":              RoleSuperadmin,
	"accommodationowner": RoleOwner,
	"owner":              RoleOwner,
	"customer":           RoleCustomer,
}

// NormalizeRole maps the spellings the profile service uses (SUPERADMIN,
// ACCOMMODATION_OWNER, accommodation-owner, ...) onto the Role constants.
// Unknown roles come back trimmed but otherwise untouched.
func NormalizeRole(raw string) string {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	if role, ok := roleAliases[key]; ok {
		return role
	}
	return strings.TrimSpace(raw)
}

// Flat breakfast surcharge per night
const DefaultBreakfastRate int64 = 50000

const DefaultTimezone = "Asia/Jakarta"

const DefaultAutoCheckInSchedule = "0 1 * * *"

func PropertyTypeLabel(t int) string {
	switch t {
	case PropertyTypeHotel:
		return "Hotel"
	case PropertyTypeVilla:
		return "Villa"
	case PropertyTypeApartment:
		return "Apartment"
	default:
		return "Unknown"
	}
}

func RoomStatusLabel(s int) string {
	if s == RoomStatusAvailable {
		return "Available"
	}
	return "Booked"
}
