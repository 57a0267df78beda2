package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus int

const (
	BookingStatusWaiting         BookingStatus = 0
	BookingStatusConfirmed       BookingStatus = 1
	BookingStatusCancelled       BookingStatus = 2
	BookingStatusRefundRequested BookingStatus = 3
	BookingStatusDone            BookingStatus = 4
)

func (s BookingStatus) Label() string {
	switch s {
	case BookingStatusWaiting:
		return "Waiting for Payment"
	case BookingStatusConfirmed:
		return "Payment Confirmed"
	case BookingStatusCancelled:
		return "Cancelled"
	case BookingStatusRefundRequested:
		return "Request Refund"
	case BookingStatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

func (s BookingStatus) Valid() bool {
	return s >= BookingStatusWaiting && s <= BookingStatusDone
}

// Holds a room: counts for conflict checks.
func (s BookingStatus) Holding() bool {
	return s == BookingStatusWaiting || s == BookingStatusConfirmed
}

type Booking struct {
	ID            string        `json:"bookingId" gorm:"primaryKey;size:64"`
	RoomID        string        `json:"roomId" gorm:"index"`
	PropertyID    string        `json:"propertyId" gorm:"index"`
	CheckIn       time.Time     `json:"checkInDate" gorm:"index"`
	CheckOut      time.Time     `json:"checkOutDate" gorm:"index"`
	TotalDays     int           `json:"totalDays"`
	TotalPrice    int64         `json:"totalPrice"`
	Status        BookingStatus `json:"status" gorm:"index"`
	CustomerID    uuid.UUID     `json:"customerId" gorm:"type:uuid;index"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	IsBreakfast   bool          `json:"isBreakfast"`
	Capacity      int           `json:"capacity"`
	Refund        int64         `json:"refund"`
	ExtraPay      int64         `json:"extraPay"`
	ActiveStatus  int           `json:"activeStatus" gorm:"default:1"`
	CreatedAt     time.Time     `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updatedDate" gorm:"autoUpdateTime"`
}

// Overlaps uses half-open [CheckIn, CheckOut) intervals.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.CheckIn.Before(end) && b.CheckOut.After(start)
}
