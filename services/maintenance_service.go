package services

import (
	"context"
	"time"

	"accommodation/constants"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/logger"
	"accommodation/types"
	"accommodation/utils"
)

type MaintenanceService struct {
	store        repository.Store
	availability *AvailabilityService
	logger       logger.Logger
	now          func() time.Time
}

func NewMaintenanceService(store repository.Store, availability *AvailabilityService, log logger.Logger, now func() time.Time) *MaintenanceService {
	if availability == nil {
		availability = NewAvailabilityService(store)
	}
	if now == nil {
		now = time.Now
	}
	return &MaintenanceService{store: store, availability: availability, logger: orNop(log), now: now}
}

func (s *MaintenanceService) roomProperty(ctx context.Context, tx repository.Store, roomID string) (*models.Room, *models.Property, error) {
	room, err := tx.Rooms().FindByIDForUpdate(ctx, roomID)
	if err != nil {
		return nil, nil, notFoundOr(err, "room", roomID)
	}
	p, err := tx.Properties().FindByID(ctx, room.PropertyID)
	if err != nil {
		return nil, nil, notFoundOr(err, "property", room.PropertyID)
	}
	return room, p, nil
}

// Create schedules maintenance for a room over [start, end). The window may not touch any
// other active maintenance or a Waiting/Confirmed booking.
func (s *MaintenanceService) Create(ctx context.Context, who types.Identity, roomID string, start, end time.Time) (*models.Maintenance, error) {
	if end.Before(start) {
		return nil, errors.NewValidation("maintenance end cannot be before its start")
	}

	var m *models.Maintenance
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		room, p, err := s.roomProperty(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if err := authorizeProperty(who, p); err != nil {
			return err
		}
		others, err := s.availability.MaintenanceConflicts(ctx, tx, roomID, start, end, "")
		if err != nil {
			return err
		}
		if len(others) > 0 {
			return errors.NewValidation("maintenance overlaps with existing maintenance %s", others[0].ID)
		}
		bookings, err := s.availability.BookingConflicts(ctx, tx, roomID, start, end, "")
		if err != nil {
			return err
		}
		if len(bookings) > 0 {
			return errors.NewValidation("maintenance conflicts with booking %s", bookings[0].ID)
		}

		m = &models.Maintenance{
			ID:           utils.MaintenanceID(roomID, s.now()),
			RoomID:       roomID,
			StartAt:      start,
			EndAt:        end,
			ActiveStatus: constants.ActiveStatusActive,
		}
		if err := freeMaintenanceID(ctx, tx, m, s.now()); err != nil {
			return err
		}
		if err := tx.Maintenances().Create(ctx, m); err != nil {
			if errors.Is(err, errors.ErrDuplicateKey) {
				return errors.NewAppError(errors.ErrCodeConflict, "maintenance "+m.ID+" already exists", err)
			}
			return errors.NewDBError("cannot create maintenance", err)
		}
		room.MaintenanceStart, room.MaintenanceEnd = &m.StartAt, &m.EndAt
		if err := tx.Rooms().Update(ctx, room); err != nil {
			return errors.NewDBError("cannot update room", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("maintenance scheduled: id=%s room=%s %s..%s", m.ID, roomID,
		m.StartAt.Format(utils.DateTimeLayout), m.EndAt.Format(utils.DateTimeLayout))
	return m, nil
}

func (s *MaintenanceService) ListByRoom(ctx context.Context, roomID string) ([]models.Maintenance, error) {
	if _, err := s.store.Rooms().FindByID(ctx, roomID); err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	list, err := s.store.Maintenances().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errors.NewDBError("cannot list maintenance", err)
	}
	out := []models.Maintenance{}
	for _, m := range list {
		if m.IsActive() {
			out = append(out, m)
		}
	}
	return out, nil
}

// Delete deactivates the maintenance and clears the room window when it was the one shown.
func (s *MaintenanceService) Delete(ctx context.Context, who types.Identity, id string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		m, err := tx.Maintenances().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "maintenance", id)
		}
		if !m.IsActive() {
			return errors.NewNotFound("maintenance", id)
		}
		room, p, err := s.roomProperty(ctx, tx, m.RoomID)
		if err != nil {
			return err
		}
		if err := authorizeProperty(who, p); err != nil {
			return err
		}
		m.ActiveStatus = constants.ActiveStatusInactive
		if err := tx.Maintenances().Update(ctx, m); err != nil {
			return errors.NewDBError("cannot delete maintenance", err)
		}
		if room.MaintenanceStart != nil && room.MaintenanceStart.Equal(m.StartAt) &&
			room.MaintenanceEnd != nil && room.MaintenanceEnd.Equal(m.EndAt) {
			room.MaintenanceStart, room.MaintenanceEnd = nil, nil
			if err := tx.Rooms().Update(ctx, room); err != nil {
				return errors.NewDBError("cannot update room", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("maintenance removed: id=%s", id)
	return nil
}

// freeMaintenanceID bumps the id timestamp by a centisecond until it is unused.
func freeMaintenanceID(ctx context.Context, tx repository.Store, m *models.Maintenance, at time.Time) error {
	for i := 0; i < 100; i++ {
		_, err := tx.Maintenances().FindByID(ctx, m.ID)
		if errors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return errors.NewDBError("cannot check maintenance id", err)
		}
		at = at.Add(10 * time.Millisecond)
		m.ID = utils.MaintenanceID(m.RoomID, at)
	}
	return errors.NewAppError(errors.ErrCodeConflict, "cannot allocate maintenance id", nil)
}
