package models

import (
	"fmt"
	"time"

	"accommodation/constants"

	"github.com/google/uuid"
)

type Review struct {
	ID                uuid.UUID `json:"reviewId" gorm:"type:uuid;primaryKey"`
	BookingID         string    `json:"bookingId" gorm:"uniqueIndex"`
	PropertyID        string    `json:"propertyId" gorm:"index"`
	CustomerID        uuid.UUID `json:"customerId" gorm:"type:uuid;index"`
	CleanlinessRating int       `json:"cleanlinessRating"`
	FacilityRating    int       `json:"facilityRating"`
	ServiceRating     int       `json:"serviceRating"`
	ValueRating       int       `json:"valueRating"`
	OverallRating     float64   `json:"overallRating"`
	Comment           string    `json:"comment"`
	ActiveStatus      int       `json:"activeStatus" gorm:"default:1"`
	CreatedAt         time.Time `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updatedDate" gorm:"autoUpdateTime"`
}

func (r *Review) ValidateRatings() error {
	for name, v := range map[string]int{
		"cleanliness": r.CleanlinessRating,
		"facility":    r.FacilityRating,
		"service":     r.ServiceRating,
		"value":       r.ValueRating,
	} {
		if v < 1 || v > 5 {
			return fmt.Errorf("invalid %s rating: %d, must be between 1 and 5", name, v)
		}
	}
	return nil
}

// ComputeOverall sets OverallRating to the mean of the four ratings.
func (r *Review) ComputeOverall() {
	sum := r.CleanlinessRating + r.FacilityRating + r.ServiceRating + r.ValueRating
	r.OverallRating = float64(sum) / 4
}

func (r *Review) IsActive() bool {
	return r.ActiveStatus == constants.ActiveStatusActive
}
