package services

import (
	"context"
	"strings"

	"accommodation/constants"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/logger"
	"accommodation/types"
	"accommodation/utils"

	"gorm.io/datatypes"
)

type RoomTypeInput struct {
	Name        string
	Floor       int
	Price       int64
	Capacity    int
	Facility    string
	Facilities  datatypes.JSON
	Description string
	TotalRoom   int
}

type RoomTypeUpdate struct {
	Price       *int64
	Capacity    *int
	Facility    *string
	Facilities  datatypes.JSON
	Description *string
}

type RoomTypeService struct {
	store  repository.Store
	cache  Cache
	logger logger.Logger
}

func NewRoomTypeService(store repository.Store, cache Cache, log logger.Logger) *RoomTypeService {
	if cache == nil {
		cache = NopCache{}
	}
	return &RoomTypeService{store: store, cache: cache, logger: orNop(log)}
}

// authorizeProperty lets superadmins through and owners only on their own properties.
func authorizeProperty(who types.Identity, p *models.Property) error {
	if who.IsSuperadmin() {
		return nil
	}
	if who.IsOwner() && p.OwnerID == who.UserID {
		return nil
	}
	return errors.NewAccessDenied("you do not own property " + p.ID)
}

func validateRoomType(p *models.Property, in RoomTypeInput) error {
	if !constants.IsValidRoomTypeName(p.Type, in.Name) {
		return errors.NewValidation("room type %q is not offered by %s properties", in.Name, p.TypeString())
	}
	if in.Floor < 1 {
		return errors.NewValidation("floor must be at least 1")
	}
	if in.Price < 0 {
		return errors.NewValidation("price must not be negative")
	}
	if in.Capacity < 1 {
		return errors.NewValidation("capacity must be at least 1")
	}
	if in.TotalRoom < 0 {
		return errors.NewValidation("totalRoom must not be negative")
	}
	return nil
}

// canonicalRoomTypeName returns the catalogue spelling of name.
func canonicalRoomTypeName(propertyType int, name string) string {
	for _, n := range constants.RoomTypeCatalogue[propertyType] {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return n
		}
	}
	return strings.TrimSpace(name)
}

// createRoomType persists the room type and its rooms on tx and bumps the property room counters.
// Rooms are numbered after the ones already on the floor.
func createRoomType(ctx context.Context, tx repository.Store, p *models.Property, in RoomTypeInput) (*models.RoomType, []models.Room, error) {
	if err := validateRoomType(p, in); err != nil {
		return nil, nil, err
	}
	name := canonicalRoomTypeName(p.Type, in.Name)
	exists, err := tx.RoomTypes().ExistsByNameFloor(ctx, p.ID, name, in.Floor)
	if err != nil {
		return nil, nil, errors.NewDBError("cannot check room types", err)
	}
	if exists {
		return nil, nil, errors.NewValidation("room type %s already exists on floor %d", name, in.Floor)
	}

	rt := &models.RoomType{
		ID:           utils.RoomTypeID(p.ID, name, in.Floor),
		PropertyID:   p.ID,
		Name:         name,
		Floor:        in.Floor,
		Price:        in.Price,
		Capacity:     in.Capacity,
		Facility:     in.Facility,
		Facilities:   in.Facilities,
		Description:  in.Description,
		ActiveStatus: constants.ActiveStatusActive,
	}
	if err := tx.RoomTypes().Create(ctx, rt); err != nil {
		if errors.Is(err, errors.ErrDuplicateKey) {
			return nil, nil, errors.NewValidation("room type %s already exists on floor %d", name, in.Floor)
		}
		return nil, nil, errors.NewDBError("cannot create room type", err)
	}

	if in.TotalRoom == 0 {
		return rt, []models.Room{}, nil
	}
	onFloor, err := tx.Rooms().CountOnFloor(ctx, p.ID, in.Floor)
	if err != nil {
		return nil, nil, errors.NewDBError("cannot count rooms", err)
	}
	if int(onFloor)+in.TotalRoom > utils.MaxUnitsPerFloor {
		return nil, nil, errors.NewValidation("floor %d can hold at most %d rooms, %d already exist",
			in.Floor, utils.MaxUnitsPerFloor, onFloor)
	}
	rooms := make([]models.Room, 0, in.TotalRoom)
	for i := 1; i <= in.TotalRoom; i++ {
		unit := int(onFloor) + i
		id := utils.RoomID(p.ID, in.Floor, unit)
		rooms = append(rooms, models.Room{
			ID:                 id,
			RoomTypeID:         rt.ID,
			PropertyID:         p.ID,
			Floor:              in.Floor,
			Name:               utils.RoomUnit(id),
			AvailabilityStatus: constants.RoomStatusAvailable,
			ActiveRoom:         constants.ActiveStatusActive,
		})
	}
	if err := tx.Rooms().CreateBatch(ctx, rooms); err != nil {
		return nil, nil, errors.NewDBError("cannot create rooms", err)
	}
	if err := tx.Properties().AddRooms(ctx, p.ID, len(rooms), len(rooms)); err != nil {
		return nil, nil, errors.NewDBError("cannot update room counters", err)
	}
	p.TotalRoom += len(rooms)
	p.ActiveRoom += len(rooms)
	return rt, rooms, nil
}

type RoomTypeDetail struct {
	models.RoomType
	Rooms []models.Room `json:"listRoom"`
}

func (s *RoomTypeService) Create(ctx context.Context, who types.Identity, propertyID string, in RoomTypeInput) (*RoomTypeDetail, error) {
	var out *RoomTypeDetail
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.Properties().FindByID(ctx, propertyID)
		if err != nil {
			return notFoundOr(err, "property", propertyID)
		}
		if err := authorizeProperty(who, p); err != nil {
			return err
		}
		if !p.IsActive() {
			return errors.NewValidation("property %s is not active", p.ID)
		}
		rt, rooms, err := createRoomType(ctx, tx, p, in)
		if err != nil {
			return err
		}
		out = &RoomTypeDetail{RoomType: *rt, Rooms: rooms}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("room type created: id=%s property=%s rooms=%d", out.ID, propertyID, len(out.Rooms))
	invalidateProperty(ctx, s.cache, s.logger, propertyID)
	return out, nil
}

func (s *RoomTypeService) Update(ctx context.Context, who types.Identity, roomTypeID string, in RoomTypeUpdate) (*models.RoomType, error) {
	var rt *models.RoomType
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		rt, err = tx.RoomTypes().FindByID(ctx, roomTypeID)
		if err != nil {
			return notFoundOr(err, "room type", roomTypeID)
		}
		p, err := tx.Properties().FindByID(ctx, rt.PropertyID)
		if err != nil {
			return notFoundOr(err, "property", rt.PropertyID)
		}
		if err := authorizeProperty(who, p); err != nil {
			return err
		}
		if in.Price != nil {
			if *in.Price < 0 {
				return errors.NewValidation("price must not be negative")
			}
			rt.Price = *in.Price
		}
		if in.Capacity != nil {
			if *in.Capacity < 1 {
				return errors.NewValidation("capacity must be at least 1")
			}
			rt.Capacity = *in.Capacity
		}
		if in.Facility != nil {
			rt.Facility = *in.Facility
		}
		if in.Facilities != nil {
			rt.Facilities = in.Facilities
		}
		if in.Description != nil {
			rt.Description = *in.Description
		}
		if err := tx.RoomTypes().Update(ctx, rt); err != nil {
			return errors.NewDBError("cannot update room type", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("room type updated: id=%s", rt.ID)
	invalidateProperty(ctx, s.cache, s.logger, rt.PropertyID)
	return rt, nil
}

func (s *RoomTypeService) Get(ctx context.Context, roomTypeID string) (*RoomTypeDetail, error) {
	rt, err := s.store.RoomTypes().FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, notFoundOr(err, "room type", roomTypeID)
	}
	rooms, err := s.store.Rooms().ListByRoomType(ctx, rt.ID)
	if err != nil {
		return nil, errors.NewDBError("cannot list rooms", err)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return &RoomTypeDetail{RoomType: *rt, Rooms: rooms}, nil
}

func (s *RoomTypeService) ListByProperty(ctx context.Context, propertyID string) ([]RoomTypeDetail, error) {
	if _, err := s.store.Properties().FindByID(ctx, propertyID); err != nil {
		return nil, notFoundOr(err, "property", propertyID)
	}
	list, err := s.store.RoomTypes().ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDBError("cannot list room types", err)
	}
	out := make([]RoomTypeDetail, 0, len(list))
	for _, rt := range list {
		rooms, err := s.store.Rooms().ListByRoomType(ctx, rt.ID)
		if err != nil {
			return nil, errors.NewDBError("cannot list rooms", err)
		}
		if rooms == nil {
			rooms = []models.Room{}
		}
		out = append(out, RoomTypeDetail{RoomType: rt, Rooms: rooms})
	}
	return out, nil
}
