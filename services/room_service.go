package services

import (
	"context"
	"time"

	"accommodation/constants"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
)

type RoomService struct {
	store        repository.Store
	availability *AvailabilityService
}

func NewRoomService(store repository.Store, availability *AvailabilityService) *RoomService {
	if availability == nil {
		availability = NewAvailabilityService(store)
	}
	return &RoomService{store: store, availability: availability}
}

type RoomDetail struct {
	models.Room
	RoomTypeName string               `json:"roomTypeName"`
	Price        int64                `json:"price"`
	Capacity     int                  `json:"capacity"`
	StatusText   string               `json:"availabilityStatusString"`
	Maintenances []models.Maintenance `json:"listMaintenance"`
}

func (s *RoomService) Get(ctx context.Context, id string) (*RoomDetail, error) {
	room, err := s.store.Rooms().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "room", id)
	}
	rt, err := s.store.RoomTypes().FindByID(ctx, room.RoomTypeID)
	if err != nil {
		return nil, notFoundOr(err, "room type", room.RoomTypeID)
	}
	maints, err := s.store.Maintenances().ListByRoom(ctx, id)
	if err != nil {
		return nil, errors.NewDBError("cannot list maintenance", err)
	}
	active := []models.Maintenance{}
	for _, m := range maints {
		if m.IsActive() {
			active = append(active, m)
		}
	}
	return &RoomDetail{
		Room:         *room,
		RoomTypeName: rt.Name,
		Price:        rt.Price,
		Capacity:     rt.Capacity,
		StatusText:   constants.RoomStatusLabel(room.AvailabilityStatus),
		Maintenances: active,
	}, nil
}

func (s *RoomService) ListByProperty(ctx context.Context, propertyID string) ([]models.Room, error) {
	if _, err := s.store.Properties().FindByID(ctx, propertyID); err != nil {
		return nil, notFoundOr(err, "property", propertyID)
	}
	rooms, err := s.store.Rooms().ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDBError("cannot list rooms", err)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

// Availability reports conflicts of one room over [checkIn, checkOut). A non-empty
// excludeBookingID leaves that booking out, as when moving its dates.
func (s *RoomService) Availability(ctx context.Context, id string, checkIn, checkOut time.Time, excludeBookingID string) (*Availability, error) {
	if _, err := s.store.Rooms().FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "room", id)
	}
	return s.availability.Check(ctx, nil, id, checkIn, checkOut, excludeBookingID)
}

func (s *RoomService) Available(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]models.Room, error) {
	if !checkIn.Before(checkOut) {
		return nil, errors.NewValidation("check-out date must be after check-in date")
	}
	if _, err := s.store.Properties().FindByID(ctx, propertyID); err != nil {
		return nil, notFoundOr(err, "property", propertyID)
	}
	return s.availability.AvailableRooms(ctx, propertyID, checkIn, checkOut)
}
