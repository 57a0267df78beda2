package models

import "time"

// IncomeEntry is one signed, append-only movement of a property's income.
type IncomeEntry struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	PropertyID string       `json:"propertyId" gorm:"index"`
	BookingID  string       `json:"bookingId" gorm:"index"`
	Event      BookingEvent `json:"event"`
	Amount     int64        `json:"amount"`
	CreatedAt  time.Time    `json:"createdDate" gorm:"index"`
}

// PropertyIncome is the income a property earned over a period.
type PropertyIncome struct {
	PropertyID   string `json:"propertyId"`
	PropertyName string `json:"propertyName"`
	Income       int64  `json:"income"`
}
