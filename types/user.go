package types

import (
	"accommodation/constants"

	"github.com/google/uuid"
)

// Identity is the authenticated caller as asserted by the external profile service.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"`
}

func (i Identity) IsSuperadmin() bool {
	return i.Role == constants.RoleSuperadmin
}

func (i Identity) IsOwner() bool {
	return i.Role == constants.RoleOwner
}

func (i Identity) IsCustomer() bool {
	return i.Role == constants.RoleCustomer
}
