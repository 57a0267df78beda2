package dto

// Dates are yyyy-MM-dd calendar days in the service time zone.
type CreateBookingRequest struct {
	RoomID        string `json:"roomId" binding:"required"`
	CheckInDate   string `json:"checkInDate" binding:"required,date"`
	CheckOutDate  string `json:"checkOutDate" binding:"required,date"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
	IsBreakfast   bool   `json:"isBreakfast"`
	CustomerID    string `json:"customerId" binding:"omitempty,uuid"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string `json:"customerPhone"`
}

type UpdateBookingRequest struct {
	CheckInDate   string `json:"checkInDate" binding:"required,date"`
	CheckOutDate  string `json:"checkOutDate" binding:"required,date"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
	IsBreakfast   bool   `json:"isBreakfast"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string `json:"customerPhone"`
}

type BookingListQuery struct {
	CustomerID string `form:"customerId" binding:"omitempty,uuid"`
	Status     *int   `form:"status" binding:"omitempty,min=0,max=4"`
	PropertyID string `form:"propertyId"`
}

type ChartQuery struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=2000"`
}

type DateRangeQuery struct {
	CheckIn  string `form:"checkIn" binding:"required,date"`
	CheckOut string `form:"checkOut" binding:"required,date"`
}

type RoomAvailabilityQuery struct {
	DateRangeQuery
	ExcludeBookingID string `form:"excludeBookingId"`
}

type AvailableRoomsQuery struct {
	PropertyID string `form:"propertyId" binding:"required"`
	CheckIn    string `form:"checkIn" binding:"required,date"`
	CheckOut   string `form:"checkOut" binding:"required,date"`
}

type PaymentConfirmRequest struct {
	ServiceReferenceID string `json:"serviceReferenceId"`
	CustomerID         string `json:"customerId"`
}
