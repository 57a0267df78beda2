package dto

type CreateReviewRequest struct {
	BookingID         string `json:"bookingId" binding:"required"`
	CleanlinessRating int    `json:"cleanlinessRating" binding:"required,min=1,max=5"`
	FacilityRating    int    `json:"facilityRating" binding:"required,min=1,max=5"`
	ServiceRating     int    `json:"serviceRating" binding:"required,min=1,max=5"`
	ValueRating       int    `json:"valueRating" binding:"required,min=1,max=5"`
	Comment           string `json:"comment" binding:"max=2000"`
}
