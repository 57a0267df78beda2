package services

import (
	"time"

	"accommodation/repository"
	"accommodation/services/logger"
	"accommodation/services/notification"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store         repository.Store
	Cache         Cache
	Uploader      ImageUploader
	Notifier      notification.Service
	Logger        logger.Logger
	Clock         func() time.Time
	Location      *time.Location
	BreakfastRate int64
}

// Services wires the domain services over one store so handlers and jobs share them.
type Services struct {
	Ledger       *LedgerService
	Availability *AvailabilityService
	Bookings     *BookingService
	Properties   *PropertyService
	RoomTypes    *RoomTypeService
	Rooms        *RoomService
	Maintenance  *MaintenanceService
	Reviews      *ReviewService
	Payments     *PaymentService
	Statistics   *StatisticsService
	Tokens       *TokenService
}

func NewServices(d Deps, tokens *TokenService) *Services {
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Cache == nil {
		d.Cache = NopCache{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}

	ledger := NewLedgerService(d.Store, d.Logger, d.Clock)
	availability := NewAvailabilityService(d.Store)
	bookings := NewBookingService(BookingServiceOptions{
		Store:         d.Store,
		Logger:        d.Logger,
		Notifier:      d.Notifier,
		Cache:         d.Cache,
		Ledger:        ledger,
		Availability:  availability,
		Clock:         d.Clock,
		Location:      d.Location,
		BreakfastRate: d.BreakfastRate,
	})

	return &Services{
		Ledger:       ledger,
		Availability: availability,
		Bookings:     bookings,
		Properties:   NewPropertyService(d.Store, d.Cache, d.Uploader, d.Logger, d.Clock),
		RoomTypes:    NewRoomTypeService(d.Store, d.Cache, d.Logger),
		Rooms:        NewRoomService(d.Store, availability),
		Maintenance:  NewMaintenanceService(d.Store, availability, d.Logger, d.Clock),
		Reviews:      NewReviewService(d.Store, d.Logger, d.Clock),
		Payments:     NewPaymentService(d.Store, bookings, d.Cache, d.Logger),
		Statistics:   NewStatisticsService(d.Store, d.Location),
		Tokens:       tokens,
	}
}

func orNop(l logger.Logger) logger.Logger {
	if l == nil {
		return logger.NewNop()
	}
	return l
}
