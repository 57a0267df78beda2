package builders

import (
	"time"

	"accommodation/constants"
	"accommodation/models"
	"accommodation/utils"

	"github.com/google/uuid"
)

// BookingBuilder assembles a new booking step by step
type BookingBuilder struct {
	booking       *models.Booking
	nightlyPrice  int64
	breakfastRate int64
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{
			Status:       models.BookingStatusWaiting,
			ActiveStatus: constants.ActiveStatusActive,
		},
		breakfastRate: constants.DefaultBreakfastRate,
	}
}

func (b *BookingBuilder) WithRoom(room *models.Room) *BookingBuilder {
	b.booking.RoomID = room.ID
	b.booking.PropertyID = room.PropertyID
	return b
}

func (b *BookingBuilder) WithNightlyPrice(price int64) *BookingBuilder {
	b.nightlyPrice = price
	return b
}

func (b *BookingBuilder) WithBreakfastRate(rate int64) *BookingBuilder {
	b.breakfastRate = rate
	return b
}

func (b *BookingBuilder) WithCustomer(id uuid.UUID, name, email, phone string) *BookingBuilder {
	b.booking.CustomerID = id
	b.booking.CustomerName = name
	b.booking.CustomerEmail = email
	b.booking.CustomerPhone = phone
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.booking.CheckIn = checkIn
	b.booking.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithCapacity(capacity int) *BookingBuilder {
	b.booking.Capacity = capacity
	return b
}

func (b *BookingBuilder) WithBreakfast(breakfast bool) *BookingBuilder {
	b.booking.IsBreakfast = breakfast
	return b
}

// Build prices the stay and stamps the id from the room and createdAt
func (b *BookingBuilder) Build(createdAt time.Time) *models.Booking {
	nights := utils.Nights(b.booking.CheckIn, b.booking.CheckOut)
	b.booking.TotalDays = nights
	b.booking.TotalPrice = StayPrice(nights, b.nightlyPrice, b.booking.IsBreakfast, b.breakfastRate)
	b.booking.ID = utils.BookingID(b.booking.RoomID, createdAt)
	return b.booking
}

// StayPrice is nights x price plus nights x breakfastRate when breakfast is taken
func StayPrice(nights int, nightlyPrice int64, breakfast bool, breakfastRate int64) int64 {
	total := int64(nights) * nightlyPrice
	if breakfast {
		total += int64(nights) * breakfastRate
	}
	return total
}
