package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "accommodation/errors"
	"accommodation/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var holdingStatuses = []models.BookingStatus{models.BookingStatusWaiting, models.BookingStatusConfirmed}

// GormStore is the Store on gorm: Postgres in deployed environments, SQLite locally and in tests.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Properties() PropertyRepository { return &gormPropertyRepo{db: s.db} }
func (s *GormStore) RoomTypes() RoomTypeRepository { return &gormRoomTypeRepo{db: s.db} }
func (s *GormStore) Rooms() RoomRepository { return &gormRoomRepo{db: s.db} }
func (s *GormStore) Bookings() BookingRepository { return &gormBookingRepo{db: s.db} }
func (s *GormStore) Maintenances() MaintenanceRepository { return &gormMaintenanceRepo{db: s.db} }
func (s *GormStore) Customers() CustomerRepository { return &gormCustomerRepo{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository { return &gormReviewRepo{db: s.db} }
func (s *GormStore) Ledger() LedgerRepository { return &gormLedgerRepo{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps gorm sentinels onto the package-neutral ones in errors.
// Duplicate detection relies on gorm.Config.TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", apperrors.ErrRecordNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", apperrors.ErrDuplicateKey, err)
	}
	return err
}

type gormPropertyRepo struct{ db *gorm.DB }

func (r *gormPropertyRepo) Create(ctx context.Context, p *models.Property) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *gormPropertyRepo) Update(ctx context.Context, p *models.Property) error {
	// income is owned by AddIncome
	return r.db.WithContext(ctx).Model(p).Omit("income", "created_at").Save(p).Error
}

func (r *gormPropertyRepo) FindByID(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *gormPropertyRepo) List(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	q := r.db.WithContext(ctx).Model(&models.Property{})
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Province != "" {
		q = q.Where("LOWER(province) = LOWER(?)", f.Province)
	}
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.ActiveOnly {
		q = q.Where("active_status = ?", 1)
	}
	var list []models.Property
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *gormPropertyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).Count(&n).Error
	return n, err
}

func (r *gormPropertyRepo) AddIncome(ctx context.Context, id string, delta int64) error {
	res := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("income", gorm.Expr("income + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *gormPropertyRepo) AddRooms(ctx context.Context, id string, total, active int) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_room":  gorm.Expr("total_room + ?", total),
			"active_room": gorm.Expr("active_room + ?", active),
		}).Error
}

type gormRoomTypeRepo struct{ db *gorm.DB }

func (r *gormRoomTypeRepo) Create(ctx context.Context, rt *models.RoomType) error {
	return translate(r.db.WithContext(ctx).Create(rt).Error)
}

func (r *gormRoomTypeRepo) Update(ctx context.Context, rt *models.RoomType) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

func (r *gormRoomTypeRepo) FindByID(ctx context.Context, id string) (*models.RoomType, error) {
	var rt models.RoomType
	if err := r.db.WithContext(ctx).First(&rt, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

func (r *gormRoomTypeRepo) ListByProperty(ctx context.Context, propertyID string) ([]models.RoomType, error) {
	var list []models.RoomType
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("floor, name").Find(&list).Error
	return list, err
}

func (r *gormRoomTypeRepo) ExistsByNameFloor(ctx context.Context, propertyID, name string, floor int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.RoomType{}).
		Where("property_id = ? AND LOWER(name) = LOWER(?) AND floor = ?", propertyID, name, floor).
		Count(&n).Error
	return n > 0, err
}

type gormRoomRepo struct{ db *gorm.DB }

func (r *gormRoomRepo) CreateBatch(ctx context.Context, rooms []models.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&rooms).Error)
}

func (r *gormRoomRepo) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *gormRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *gormRoomRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *gormRoomRepo) ListByRoomType(ctx context.Context, roomTypeID string) ([]models.Room, error) {
	var list []models.Room
	err := r.db.WithContext(ctx).Where("room_type_id = ?", roomTypeID).Order("id").Find(&list).Error
	return list, err
}

func (r *gormRoomRepo) ListByProperty(ctx context.Context, propertyID string) ([]models.Room, error) {
	var list []models.Room
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("id").Find(&list).Error
	return list, err
}

func (r *gormRoomRepo) CountOnFloor(ctx context.Context, propertyID string, floor int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("property_id = ? AND floor = ?", propertyID, floor).
		Count(&n).Error
	return n, err
}

type gormBookingRepo struct{ db *gorm.DB }

func (r *gormBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *gormBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *gormBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *gormBookingRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *gormBookingRepo) List(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.PropertyID != "" {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.PropertyIDs != nil {
		if len(f.PropertyIDs) == 0 {
			return []models.Booking{}, nil
		}
		q = q.Where("property_id IN ?", f.PropertyIDs)
	}
	var list []models.Booking
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *gormBookingRepo) FindConflicting(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("room_id = ? AND active_status = ? AND status IN ?", roomID, 1, holdingStatuses).
		Where("check_in < ? AND check_out > ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var list []models.Booking
	err := q.Find(&list).Error
	return list, err
}

func (r *gormBookingRepo) FindDueForCheckIn(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND active_status = ? AND check_in <= ?", models.BookingStatusConfirmed, 1, now).
		Order("check_in").
		Find(&list).Error
	return list, err
}

func (r *gormBookingRepo) CountFutureByProperty(ctx context.Context, propertyID string, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("property_id = ? AND status IN ? AND check_in > ?", propertyID, holdingStatuses, now).
		Count(&n).Error
	return n, err
}

func (r *gormBookingRepo) CountHoldingByRoom(ctx context.Context, roomID string, excludeID string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ? AND active_status = ? AND status IN ?", roomID, 1, holdingStatuses)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, err
}

type gormMaintenanceRepo struct{ db *gorm.DB }

func (r *gormMaintenanceRepo) Create(ctx context.Context, m *models.Maintenance) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormMaintenanceRepo) Update(ctx context.Context, m *models.Maintenance) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *gormMaintenanceRepo) FindByID(ctx context.Context, id string) (*models.Maintenance, error) {
	var m models.Maintenance
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *gormMaintenanceRepo) ListByRoom(ctx context.Context, roomID string) ([]models.Maintenance, error) {
	var list []models.Maintenance
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND active_status = ?", roomID, 1).
		Order("start_at").
		Find(&list).Error
	return list, err
}

func (r *gormMaintenanceRepo) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]models.Maintenance, error) {
	q := r.db.WithContext(ctx).
		Where("room_id = ? AND active_status = ?", roomID, 1).
		Where("start_at < ? AND end_at > ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var list []models.Maintenance
	err := q.Find(&list).Error
	return list, err
}

type gormCustomerRepo struct{ db *gorm.DB }

func (r *gormCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *gormCustomerRepo) Save(ctx context.Context, c *models.Customer) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

type gormReviewRepo struct{ db *gorm.DB }

func (r *gormReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	return translate(r.db.WithContext(ctx).Create(rv).Error)
}

func (r *gormReviewRepo) Update(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *gormReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *gormReviewRepo) FindByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, "booking_id = ?", bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *gormReviewRepo) ListByProperty(ctx context.Context, propertyID string) ([]models.Review, error) {
	var list []models.Review
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND active_status = ?", propertyID, 1).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *gormReviewRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Review, error) {
	var list []models.Review
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND active_status = ?", customerID, 1).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

type gormLedgerRepo struct{ db *gorm.DB }

func (r *gormLedgerRepo) Append(ctx context.Context, e *models.IncomeEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *gormLedgerRepo) ListByProperty(ctx context.Context, propertyID string) ([]models.IncomeEntry, error) {
	var list []models.IncomeEntry
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("id").Find(&list).Error
	return list, err
}

func (r *gormLedgerRepo) SumByProperty(ctx context.Context, propertyID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.IncomeEntry{}).
		Where("property_id = ?", propertyID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *gormLedgerRepo) SumByBooking(ctx context.Context, bookingID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.IncomeEntry{}).
		Where("booking_id = ?", bookingID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *gormLedgerRepo) SumByPropertyBetween(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	var rows []struct {
		PropertyID string
		Total      int64
	}
	err := r.db.WithContext(ctx).Model(&models.IncomeEntry{}).
		Select("property_id, COALESCE(SUM(amount), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("property_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.PropertyID] = row.Total
	}
	return out, nil
}
