package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"accommodation/constants"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/logger"
	"accommodation/types"
	"accommodation/utils"

	"github.com/google/uuid"
)

type PropertyService struct {
	store    repository.Store
	cache    Cache
	uploader ImageUploader
	logger   logger.Logger
	now      func() time.Time
}

func NewPropertyService(store repository.Store, cache Cache, uploader ImageUploader, log logger.Logger, now func() time.Time) *PropertyService {
	if cache == nil {
		cache = NopCache{}
	}
	if now == nil {
		now = time.Now
	}
	return &PropertyService{store: store, cache: cache, uploader: uploader, logger: orNop(log), now: now}
}

type CreatePropertyInput struct {
	Name        string
	Type        int
	Address     string
	Province    string
	Description string
	Images      []string
	OwnerID     uuid.UUID // superadmin only
	OwnerName   string
	RoomTypes   []RoomTypeInput
}

type UpdatePropertyInput struct {
	Name        *string
	Address     *string
	Province    *string
	Description *string
	Images      []string
	RoomTypes   []RoomTypeInput
}

type PropertyQuery struct {
	Name     string
	Type     *int
	Province string
	Query    string
	// IncludeInactive is honoured for owners and superadmins only.
	IncludeInactive bool
}

type PropertyDetail struct {
	models.Property
	TypeText  string           `json:"typeString"`
	RoomTypes []RoomTypeDetail `json:"listRoomType"`
}

// invalidateProperty drops the detail entry and every cached listing.
func invalidateProperty(ctx context.Context, cache Cache, log logger.Logger, propertyID string) {
	if err := cache.Delete(ctx, constants.CacheKeyProperty+propertyID); err != nil {
		log.Error("cache delete failed for property %s: %v", propertyID, err)
	}
	if err := cache.DeletePrefix(ctx, constants.CacheKeyPropertyList); err != nil {
		log.Error("cache delete failed for property lists: %v", err)
	}
}

func (s *PropertyService) Create(ctx context.Context, who types.Identity, in CreatePropertyInput) (*PropertyDetail, error) {
	if !who.IsOwner() && !who.IsSuperadmin() {
		return nil, errors.NewAccessDenied("only accommodation owners can create properties")
	}
	ownerID, ownerName := who.UserID, who.Name
	if who.IsSuperadmin() && in.OwnerID != uuid.Nil {
		ownerID, ownerName = in.OwnerID, in.OwnerName
	}
	if ownerID == uuid.Nil {
		return nil, errors.NewValidation("owner id is required")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.Province) == "" {
		return nil, errors.NewValidation("name, address and province are required")
	}

	p := &models.Property{
		Name:         strings.TrimSpace(in.Name),
		Type:         in.Type,
		Address:      in.Address,
		Province:     in.Province,
		Description:  in.Description,
		Images:       in.Images,
		ActiveStatus: constants.ActiveStatusActive,
		OwnerID:      ownerID,
		OwnerName:    ownerName,
	}
	if err := p.ValidateType(); err != nil {
		return nil, errors.NewValidation("%s", err.Error())
	}

	detail := &PropertyDetail{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		count, err := tx.Properties().Count(ctx)
		if err != nil {
			return errors.NewDBError("cannot count properties", err)
		}
		p.ID = utils.PropertyID(p.Type, ownerID, int(count)+1)
		if err := tx.Properties().Create(ctx, p); err != nil {
			if errors.Is(err, errors.ErrDuplicateKey) {
				return errors.NewAppError(errors.ErrCodeConflict, "property id "+p.ID+" is taken, retry", err)
			}
			return errors.NewDBError("cannot create property", err)
		}
		for _, rtIn := range in.RoomTypes {
			rt, rooms, err := createRoomType(ctx, tx, p, rtIn)
			if err != nil {
				return err
			}
			detail.RoomTypes = append(detail.RoomTypes, RoomTypeDetail{RoomType: *rt, Rooms: rooms})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("property created: id=%s owner=%s rooms=%d", p.ID, ownerID, p.TotalRoom)
	invalidateProperty(ctx, s.cache, s.logger, p.ID)
	detail.Property = *p
	detail.TypeText = p.TypeString()
	if detail.RoomTypes == nil {
		detail.RoomTypes = []RoomTypeDetail{}
	}
	return detail, nil
}

func (s *PropertyService) Update(ctx context.Context, who types.Identity, id string, in UpdatePropertyInput) (*PropertyDetail, error) {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.Properties().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "property", id)
		}
		if err := authorizeProperty(who, p); err != nil {
			return err
		}
		if !p.IsActive() {
			return errors.NewValidation("property %s is not active", id)
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return errors.NewValidation("name must not be empty")
			}
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Address != nil {
			p.Address = *in.Address
		}
		if in.Province != nil {
			p.Province = *in.Province
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Images != nil {
			p.Images = in.Images
		}
		for _, rtIn := range in.RoomTypes {
			if _, _, err := createRoomType(ctx, tx, p, rtIn); err != nil {
				return err
			}
		}
		if err := tx.Properties().Update(ctx, p); err != nil {
			return errors.NewDBError("cannot update property", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("property updated: id=%s", id)
	invalidateProperty(ctx, s.cache, s.logger, id)
	return s.Get(ctx, id)
}

// Delete deactivates the property; it is refused while bookings are still to come.
func (s *PropertyService) Delete(ctx context.Context, who types.Identity, id string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.Properties().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "property", id)
		}
		if err := authorizeProperty(who, p); err != nil {
			return err
		}
		future, err := tx.Bookings().CountFutureByProperty(ctx, id, s.now())
		if err != nil {
			return errors.NewDBError("cannot count bookings", err)
		}
		if future > 0 {
			return errors.NewValidation("property %s still has %d upcoming bookings", id, future)
		}
		p.ActiveStatus = constants.ActiveStatusInactive
		if err := tx.Properties().Update(ctx, p); err != nil {
			return errors.NewDBError("cannot delete property", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("property deactivated: id=%s", id)
	invalidateProperty(ctx, s.cache, s.logger, id)
	return nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*PropertyDetail, error) {
	key := constants.CacheKeyProperty + id
	var cached PropertyDetail
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Error("cache read failed for %s: %v", key, err)
	} else if hit {
		return &cached, nil
	}

	p, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "property", id)
	}
	roomTypes, err := NewRoomTypeService(s.store, s.cache, s.logger).ListByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &PropertyDetail{Property: *p, TypeText: p.TypeString(), RoomTypes: roomTypes}
	if err := s.cache.Set(ctx, key, detail, constants.CacheTTLProperty); err != nil {
		s.logger.Error("cache write failed for %s: %v", key, err)
	}
	return detail, nil
}

func listCacheKey(who types.Identity, q PropertyQuery) string {
	typ := "-"
	if q.Type != nil {
		typ = fmt.Sprint(*q.Type)
	}
	scope := "public"
	if who.IsOwner() {
		scope = "owner:" + who.UserID.String()
	} else if who.IsSuperadmin() {
		scope = "admin"
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%s:%t", constants.CacheKeyPropertyList, scope,
		strings.ToLower(q.Name), typ, strings.ToLower(q.Province), normalizeInput(q.Query), q.IncludeInactive)
}

// List filters properties for the caller; owners only see their own. A free text query ranks
// the result by fuzzy score.
func (s *PropertyService) List(ctx context.Context, who types.Identity, q PropertyQuery) ([]ScoredProperty, error) {
	key := listCacheKey(who, q)
	var cached []ScoredProperty
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Error("cache read failed for %s: %v", key, err)
	} else if hit {
		return cached, nil
	}

	f := repository.PropertyFilter{
		Type:       q.Type,
		Province:   q.Province,
		Name:       q.Name,
		ActiveOnly: !q.IncludeInactive || !(who.IsOwner() || who.IsSuperadmin()),
	}
	if who.IsOwner() {
		owner := who.UserID
		f.OwnerID = &owner
	}
	list, err := s.store.Properties().List(ctx, f)
	if err != nil {
		return nil, errors.NewDBError("cannot list properties", err)
	}
	out := ScoreProperties(q.Query, list)

	if err := s.cache.Set(ctx, key, out, constants.CacheTTLProperty); err != nil {
		s.logger.Error("cache write failed for %s: %v", key, err)
	}
	return out, nil
}

// UploadImages stores each file and appends the URLs to the property gallery.
func (s *PropertyService) UploadImages(ctx context.Context, who types.Identity, id string, files []io.Reader) ([]string, error) {
	if s.uploader == nil {
		return nil, errors.NewAppError(errors.ErrCodeUpload, "image upload is not configured", nil)
	}
	if len(files) == 0 {
		return nil, errors.NewValidation("no files to upload")
	}
	p, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "property", id)
	}
	if err := authorizeProperty(who, p); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.uploader.Upload(ctx, f, "properties/"+id)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeUpload, "image upload failed", err)
		}
		urls = append(urls, url)
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		cur, err := tx.Properties().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "property", id)
		}
		cur.Images = append(cur.Images, urls...)
		if err := tx.Properties().Update(ctx, cur); err != nil {
			return errors.NewDBError("cannot save images", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("property %s: %d images uploaded", id, len(urls))
	invalidateProperty(ctx, s.cache, s.logger, id)
	return urls, nil
}
