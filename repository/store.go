package repository

import (
	"context"
	"time"

	"accommodation/models"

	"github.com/google/uuid"
)

// Store groups the repositories. Transaction runs fn against a Store bound to one
// transaction; a non-nil error from fn rolls everything back.
type Store interface {
	Properties() PropertyRepository
	RoomTypes() RoomTypeRepository
	Rooms() RoomRepository
	Bookings() BookingRepository
	Maintenances() MaintenanceRepository
	Customers() CustomerRepository
	Reviews() ReviewRepository
	Ledger() LedgerRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type PropertyFilter struct {
	OwnerID    *uuid.UUID
	Type       *int
	Province   string
	Name       string
	ActiveOnly bool
}

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	Update(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id string) (*models.Property, error)
	List(ctx context.Context, f PropertyFilter) ([]models.Property, error)
	Count(ctx context.Context) (int64, error)
	// AddIncome bumps the cached income column atomically.
	AddIncome(ctx context.Context, id string, delta int64) error
	AddRooms(ctx context.Context, id string, total, active int) error
}

type RoomTypeRepository interface {
	Create(ctx context.Context, rt *models.RoomType) error
	Update(ctx context.Context, rt *models.RoomType) error
	FindByID(ctx context.Context, id string) (*models.RoomType, error)
	ListByProperty(ctx context.Context, propertyID string) ([]models.RoomType, error)
	ExistsByNameFloor(ctx context.Context, propertyID, name string, floor int) (bool, error)
}

type RoomRepository interface {
	CreateBatch(ctx context.Context, rooms []models.Room) error
	Update(ctx context.Context, r *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Room, error)
	ListByRoomType(ctx context.Context, roomTypeID string) ([]models.Room, error)
	ListByProperty(ctx context.Context, propertyID string) ([]models.Room, error)
	CountOnFloor(ctx context.Context, propertyID string, floor int) (int64, error)
}

type BookingFilter struct {
	CustomerID *uuid.UUID
	Status     *models.BookingStatus
	PropertyID string
	// PropertyIDs restricts to any of these properties when non-nil.
	PropertyIDs []string
}

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	// FindByIDForUpdate locks the booking row so concurrent transitions serialize.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, f BookingFilter) ([]models.Booking, error)
	// FindConflicting returns active Waiting/Confirmed bookings of the room
	// overlapping [start, end), excluding excludeID.
	FindConflicting(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]models.Booking, error)
	// FindDueForCheckIn returns Confirmed bookings with check-in at or before now.
	FindDueForCheckIn(ctx context.Context, now time.Time) ([]models.Booking, error)
	CountFutureByProperty(ctx context.Context, propertyID string, now time.Time) (int64, error)
	CountHoldingByRoom(ctx context.Context, roomID string, excludeID string) (int64, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *models.Maintenance) error
	Update(ctx context.Context, m *models.Maintenance) error
	FindByID(ctx context.Context, id string) (*models.Maintenance, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.Maintenance, error)
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]models.Maintenance, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Save(ctx context.Context, c *models.Customer) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, r *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]models.Review, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Review, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, e *models.IncomeEntry) error
	ListByProperty(ctx context.Context, propertyID string) ([]models.IncomeEntry, error)
	SumByProperty(ctx context.Context, propertyID string) (int64, error)
	SumByBooking(ctx context.Context, bookingID string) (int64, error)
	// SumByPropertyBetween folds entries created in [from, to) per property.
	SumByPropertyBetween(ctx context.Context, from, to time.Time) (map[string]int64, error)
}
