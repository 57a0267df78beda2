package services

import (
	"context"
	"time"

	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
)

// AvailabilityService answers overlap questions for one room over [start, end).
// Touching intervals (end == start) never conflict.
type AvailabilityService struct {
	store repository.Store
}

func NewAvailabilityService(store repository.Store) *AvailabilityService {
	return &AvailabilityService{store: store}
}

type Availability struct {
	RoomID       string               `json:"roomId"`
	Available    bool                 `json:"available"`
	Bookings     []models.Booking     `json:"conflictingBookings,omitempty"`
	Maintenances []models.Maintenance `json:"conflictingMaintenance,omitempty"`
}

func (s *AvailabilityService) BookingConflicts(ctx context.Context, tx repository.Store, roomID string, start, end time.Time, excludeBookingID string) ([]models.Booking, error) {
	list, err := tx.Bookings().FindConflicting(ctx, roomID, start, end, excludeBookingID)
	if err != nil {
		return nil, errors.NewDBError("cannot check booking conflicts", err)
	}
	return list, nil
}

func (s *AvailabilityService) MaintenanceConflicts(ctx context.Context, tx repository.Store, roomID string, start, end time.Time, excludeMaintenanceID string) ([]models.Maintenance, error) {
	list, err := tx.Maintenances().FindOverlapping(ctx, roomID, start, end, excludeMaintenanceID)
	if err != nil {
		return nil, errors.NewDBError("cannot check maintenance conflicts", err)
	}
	return list, nil
}

// Check runs both conflict queries on tx (pass the service store outside a transaction).
func (s *AvailabilityService) Check(ctx context.Context, tx repository.Store, roomID string, start, end time.Time, excludeBookingID string) (*Availability, error) {
	if tx == nil {
		tx = s.store
	}
	if !start.Before(end) {
		return nil, errors.NewValidation("end must be after start")
	}
	bookings, err := s.BookingConflicts(ctx, tx, roomID, start, end, excludeBookingID)
	if err != nil {
		return nil, err
	}
	maints, err := s.MaintenanceConflicts(ctx, tx, roomID, start, end, "")
	if err != nil {
		return nil, err
	}
	return &Availability{
		RoomID:       roomID,
		Available:    len(bookings) == 0 && len(maints) == 0,
		Bookings:     bookings,
		Maintenances: maints,
	}, nil
}

// IsAvailable is Check reduced to a boolean; excludeBookingID skips that booking.
func (s *AvailabilityService) IsAvailable(ctx context.Context, roomID string, start, end time.Time, excludeBookingID string) (bool, error) {
	a, err := s.Check(ctx, nil, roomID, start, end, excludeBookingID)
	if err != nil {
		return false, err
	}
	return a.Available, nil
}

// AvailableRooms lists active rooms of the property free over [start, end).
func (s *AvailabilityService) AvailableRooms(ctx context.Context, propertyID string, start, end time.Time) ([]models.Room, error) {
	rooms, err := s.store.Rooms().ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDBError("cannot list rooms", err)
	}
	out := []models.Room{}
	for _, room := range rooms {
		if !room.IsActive() {
			continue
		}
		free, err := s.IsAvailable(ctx, room.ID, start, end, "")
		if err != nil {
			return nil, err
		}
		if free {
			out = append(out, room)
		}
	}
	return out, nil
}
