package services

import (
	"context"
	"time"

	"accommodation/builders"
	"accommodation/commands"
	"accommodation/constants"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/logger"
	"accommodation/services/notification"
	"accommodation/types"
	"accommodation/utils"

	"github.com/google/uuid"
)

// BookingService owns the booking lifecycle. Every income movement goes through the ledger
// inside the same transaction as the status change.
type BookingService struct {
	store         repository.Store
	logger        logger.Logger
	notifier      notification.Service
	cache         Cache
	ledger        *LedgerService
	availability  *AvailabilityService
	now           func() time.Time
	loc           *time.Location
	breakfastRate int64
}

type BookingServiceOptions struct {
	Store         repository.Store
	Logger        logger.Logger
	Notifier      notification.Service
	Cache         Cache
	Ledger        *LedgerService
	Availability  *AvailabilityService
	Clock         func() time.Time
	Location      *time.Location
	BreakfastRate int64
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	s := &BookingService{
		store:         opts.Store,
		logger:        opts.Logger,
		notifier:      opts.Notifier,
		cache:         opts.Cache,
		ledger:        opts.Ledger,
		availability:  opts.Availability,
		now:           opts.Clock,
		loc:           opts.Location,
		breakfastRate: opts.BreakfastRate,
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.notifier == nil {
		s.notifier = notification.Nop{}
	}
	if s.cache == nil {
		s.cache = NopCache{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.breakfastRate == 0 {
		s.breakfastRate = constants.DefaultBreakfastRate
	}
	if s.ledger == nil {
		s.ledger = NewLedgerService(s.store, s.logger, s.now)
	}
	if s.availability == nil {
		s.availability = NewAvailabilityService(s.store)
	}
	return s
}

type CreateBookingInput struct {
	RoomID        string
	CheckIn       time.Time
	CheckOut      time.Time
	Capacity      int
	IsBreakfast   bool
	CustomerID    uuid.UUID // superadmin only; defaults to the caller
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type UpdateBookingInput struct {
	CheckIn       time.Time
	CheckOut      time.Time
	Capacity      int
	IsBreakfast   bool
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type BookingDetail struct {
	models.Booking
	StatusText string         `json:"statusString"`
	Actions    models.Actions `json:"availableActions"`
}

func detailOf(b *models.Booking) *BookingDetail {
	return &BookingDetail{Booking: *b, StatusText: b.Status.Label(), Actions: b.AvailableActions()}
}

type CheckInSummary struct {
	CheckedIn int      `json:"checkedIn"`
	Cancelled int      `json:"cancelled"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failedIds,omitempty"`
}

func (s *BookingService) validateStay(checkIn, checkOut time.Time, capacity int) (int, error) {
	today := utils.StartOfDay(s.now().In(s.loc))
	if checkIn.Before(today) {
		return 0, errors.NewValidation("check-in date must be today or later")
	}
	if !checkOut.After(checkIn) {
		return 0, errors.NewValidation("check-out date must be after check-in date")
	}
	nights := utils.Nights(checkIn, checkOut)
	if nights < 1 {
		return 0, errors.NewValidation("a booking must cover at least one night")
	}
	if capacity < 1 {
		return 0, errors.NewValidation("capacity must be at least 1")
	}
	return nights, nil
}

// lockRoom loads the room, its type and property for a booking write and checks they are bookable.
func (s *BookingService) lockRoom(ctx context.Context, tx repository.Store, roomID string, capacity int) (*models.Room, *models.RoomType, error) {
	room, err := tx.Rooms().FindByIDForUpdate(ctx, roomID)
	if err != nil {
		return nil, nil, notFoundOr(err, "room", roomID)
	}
	if !room.IsActive() {
		return nil, nil, errors.NewValidation("room %s is not active", roomID)
	}
	rt, err := tx.RoomTypes().FindByID(ctx, room.RoomTypeID)
	if err != nil {
		return nil, nil, notFoundOr(err, "room type", room.RoomTypeID)
	}
	if !rt.IsActive() {
		return nil, nil, errors.NewValidation("room type %s is not active", rt.ID)
	}
	property, err := tx.Properties().FindByID(ctx, room.PropertyID)
	if err != nil {
		return nil, nil, notFoundOr(err, "property", room.PropertyID)
	}
	if !property.IsActive() {
		return nil, nil, errors.NewValidation("property %s is not active", property.ID)
	}
	if capacity > rt.Capacity {
		return nil, nil, errors.NewValidation("capacity %d exceeds room type capacity %d", capacity, rt.Capacity)
	}
	return room, rt, nil
}

func (s *BookingService) ensureFree(ctx context.Context, tx repository.Store, roomID string, start, end time.Time, excludeID string) error {
	a, err := s.availability.Check(ctx, tx, roomID, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(a.Maintenances) > 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "room has maintenance scheduled during the selected dates", errors.ErrRoomNotAvailable)
	}
	if len(a.Bookings) > 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "room is already booked for the selected dates", errors.ErrRoomNotAvailable)
	}
	return nil
}

func (s *BookingService) saveCustomer(ctx context.Context, tx repository.Store, id uuid.UUID, name, email, phone string) error {
	c := &models.Customer{ID: id, Name: name, Email: email, Phone: phone}
	if existing, err := tx.Customers().FindByID(ctx, id); err == nil {
		c.CreatedAt = existing.CreatedAt
	} else if !errors.IsNotFound(err) {
		return errors.NewDBError("cannot load customer", err)
	}
	if err := tx.Customers().Save(ctx, c); err != nil {
		if errors.Is(err, errors.ErrDuplicateKey) {
			return errors.NewValidation("email %s is already used by another customer", email)
		}
		return errors.NewDBError("cannot save customer", err)
	}
	return nil
}

// freeBookingID bumps the id timestamp by a centisecond until it is unused.
func freeBookingID(ctx context.Context, tx repository.Store, b *models.Booking, at time.Time) error {
	for i := 0; i < 100; i++ {
		_, err := tx.Bookings().FindByID(ctx, b.ID)
		if errors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return errors.NewDBError("cannot check booking id", err)
		}
		at = at.Add(10 * time.Millisecond)
		b.ID = utils.BookingID(b.RoomID, at)
	}
	return errors.NewAppError(errors.ErrCodeConflict, "cannot allocate booking id", nil)
}

func (s *BookingService) Create(ctx context.Context, who types.Identity, in CreateBookingInput) (*BookingDetail, error) {
	if _, err := s.validateStay(in.CheckIn, in.CheckOut, in.Capacity); err != nil {
		return nil, err
	}
	customerID := who.UserID
	if who.IsSuperadmin() && in.CustomerID != uuid.Nil {
		customerID = in.CustomerID
	}
	if customerID == uuid.Nil {
		return nil, errors.NewValidation("customer id is required")
	}

	var booking *models.Booking
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		room, rt, err := s.lockRoom(ctx, tx, in.RoomID, in.Capacity)
		if err != nil {
			return err
		}
		if err := s.ensureFree(ctx, tx, room.ID, in.CheckIn, in.CheckOut, ""); err != nil {
			return err
		}

		now := s.now()
		booking = builders.NewBookingBuilder().
			WithRoom(room).
			WithNightlyPrice(rt.Price).
			WithBreakfastRate(s.breakfastRate).
			WithBreakfast(in.IsBreakfast).
			WithStay(in.CheckIn, in.CheckOut).
			WithCapacity(in.Capacity).
			WithCustomer(customerID, in.CustomerName, in.CustomerEmail, in.CustomerPhone).
			Build(now)
		if err := freeBookingID(ctx, tx, booking, now); err != nil {
			return err
		}
		if err := s.saveCustomer(ctx, tx, customerID, in.CustomerName, in.CustomerEmail, in.CustomerPhone); err != nil {
			return err
		}
		if err := commands.Run(ctx, tx,
			commands.NewCreateBookingCommand(booking),
			commands.NewHoldRoomCommand(room),
		); err != nil {
			return errors.NewDBError("cannot create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created: id=%s room=%s total=%d", booking.ID, booking.RoomID, booking.TotalPrice)
	s.forgetProperty(ctx, booking.PropertyID)
	s.publish("booking.created", booking, 0)
	return detailOf(booking), nil
}

// authorize: customers act on their own bookings, owners on bookings of their properties,
// superadmins on anything. staffOnly excludes customers.
func (s *BookingService) authorize(ctx context.Context, tx repository.Store, who types.Identity, b *models.Booking, staffOnly bool) error {
	if who.IsSuperadmin() {
		return nil
	}
	if who.IsCustomer() && !staffOnly && b.CustomerID == who.UserID {
		return nil
	}
	if who.IsOwner() {
		p, err := tx.Properties().FindByID(ctx, b.PropertyID)
		if err != nil {
			return notFoundOr(err, "property", b.PropertyID)
		}
		if p.OwnerID == who.UserID {
			return nil
		}
	}
	return errors.NewAccessDenied("you are not allowed to access booking " + b.ID)
}

// applyEvent runs one table transition on tx: booking row, room release and ledger entry.
func (s *BookingService) applyEvent(ctx context.Context, tx repository.Store, b *models.Booking, ev models.BookingEvent) (models.Transition, error) {
	var credited int64
	if ev == models.EventCancel {
		var err error
		if credited, err = s.ledger.CreditedFor(ctx, tx, b.ID); err != nil {
			return models.Transition{}, err
		}
	}
	tr, err := b.Apply(ev, credited)
	if err != nil {
		return tr, err
	}

	cmds := []commands.BookingCommand{commands.NewUpdateBookingCommand(b)}
	if tr.ReleaseRoom {
		cmds = append(cmds, commands.NewReleaseRoomCommand(b.RoomID, b.ID))
	}
	if err := commands.Run(ctx, tx, cmds...); err != nil {
		return tr, errors.NewDBError("cannot save booking", err)
	}
	if err := s.ledger.Post(ctx, tx, b.PropertyID, b.ID, ev, tr.IncomeDelta); err != nil {
		return tr, err
	}
	s.logger.Info("booking %s: %s -> %s via %s (income %+d)", b.ID, tr.From.Label(), tr.To.Label(), ev, tr.IncomeDelta)
	return tr, nil
}

func (s *BookingService) transition(ctx context.Context, who types.Identity, bookingID string, ev models.BookingEvent, staffOnly bool) (*BookingDetail, error) {
	var booking *models.Booking
	var tr models.Transition
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return notFoundOr(err, "booking", bookingID)
		}
		if err := s.authorize(ctx, tx, who, b, staffOnly); err != nil {
			return err
		}
		tr, err = s.applyEvent(ctx, tx, b, ev)
		booking = b
		return err
	})
	if err != nil {
		return nil, err
	}
	s.forgetProperty(ctx, booking.PropertyID)
	s.publish("booking."+string(ev), booking, tr.IncomeDelta)
	return detailOf(booking), nil
}

// Pay confirms a Waiting booking, or settles the outstanding extra pay of a Confirmed one.
func (s *BookingService) Pay(ctx context.Context, who types.Identity, bookingID string) (*BookingDetail, error) {
	return s.transition(ctx, who, bookingID, models.EventPay, false)
}

func (s *BookingService) Cancel(ctx context.Context, who types.Identity, bookingID string) (*BookingDetail, error) {
	return s.transition(ctx, who, bookingID, models.EventCancel, false)
}

func (s *BookingService) RequestRefund(ctx context.Context, who types.Identity, bookingID string) (*BookingDetail, error) {
	return s.transition(ctx, who, bookingID, models.EventRequestRefund, false)
}

func (s *BookingService) PayoutRefund(ctx context.Context, who types.Identity, bookingID string) (*BookingDetail, error) {
	return s.transition(ctx, who, bookingID, models.EventPayoutRefund, true)
}

// Update re-prices the booking from new dates, capacity and breakfast choice.
func (s *BookingService) Update(ctx context.Context, who types.Identity, bookingID string, in UpdateBookingInput) (*BookingDetail, error) {
	var booking *models.Booking
	var tr models.Transition
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return notFoundOr(err, "booking", bookingID)
		}
		if err := s.authorize(ctx, tx, who, b, false); err != nil {
			return err
		}
		if !b.CanApply(models.EventReprice) {
			return b.Reject(models.EventReprice)
		}
		nights, err := s.validateStay(in.CheckIn, in.CheckOut, in.Capacity)
		if err != nil {
			return err
		}
		_, rt, err := s.lockRoom(ctx, tx, b.RoomID, in.Capacity)
		if err != nil {
			return err
		}
		if err := s.ensureFree(ctx, tx, b.RoomID, in.CheckIn, in.CheckOut, b.ID); err != nil {
			return err
		}

		newTotal := builders.StayPrice(nights, rt.Price, in.IsBreakfast, s.breakfastRate)
		if tr, err = b.Reprice(newTotal); err != nil {
			return err
		}
		b.CheckIn, b.CheckOut, b.TotalDays = in.CheckIn, in.CheckOut, nights
		b.Capacity = in.Capacity
		b.IsBreakfast = in.IsBreakfast
		if in.CustomerName != "" {
			b.CustomerName = in.CustomerName
		}
		if in.CustomerEmail != "" {
			b.CustomerEmail = in.CustomerEmail
		}
		if in.CustomerPhone != "" {
			b.CustomerPhone = in.CustomerPhone
		}
		if err := commands.NewUpdateBookingCommand(b).Execute(ctx, tx); err != nil {
			return errors.NewDBError("cannot save booking", err)
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking %s updated: total=%d extraPay=%d refund=%d status=%s",
		booking.ID, booking.TotalPrice, booking.ExtraPay, booking.Refund, tr.To.Label())
	s.publish("booking.updated", booking, 0)
	return detailOf(booking), nil
}

func (s *BookingService) Get(ctx context.Context, who types.Identity, bookingID string) (*BookingDetail, error) {
	b, err := s.store.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	if err := s.authorize(ctx, s.store, who, b, false); err != nil {
		return nil, err
	}
	return detailOf(b), nil
}

// List scopes by role: customers see their own, owners their properties', superadmins filter freely.
func (s *BookingService) List(ctx context.Context, who types.Identity, f repository.BookingFilter) ([]BookingDetail, error) {
	switch {
	case who.IsSuperadmin():
	case who.IsOwner():
		owner := who.UserID
		props, err := s.store.Properties().List(ctx, repository.PropertyFilter{OwnerID: &owner})
		if err != nil {
			return nil, errors.NewDBError("cannot list properties", err)
		}
		f.CustomerID = nil
		f.PropertyIDs = make([]string, 0, len(props))
		for _, p := range props {
			f.PropertyIDs = append(f.PropertyIDs, p.ID)
		}
	case who.IsCustomer():
		customer := who.UserID
		f.CustomerID = &customer
		f.PropertyIDs = nil
	default:
		return nil, errors.NewAccessDenied("unknown role " + who.Role)
	}

	list, err := s.store.Bookings().List(ctx, f)
	if err != nil {
		return nil, errors.NewDBError("cannot list bookings", err)
	}
	out := make([]BookingDetail, 0, len(list))
	for i := range list {
		out = append(out, *detailOf(&list[i]))
	}
	return out, nil
}

// AutoCheckIn completes Confirmed bookings whose check-in has passed, or cancels them while
// extra pay is outstanding. Each booking commits on its own; failures are retried next run.
func (s *BookingService) AutoCheckIn(ctx context.Context) (CheckInSummary, error) {
	var summary CheckInSummary
	now := s.now()
	due, err := s.store.Bookings().FindDueForCheckIn(ctx, now)
	if err != nil {
		return summary, errors.NewDBError("cannot load due bookings", err)
	}
	s.logger.Info("auto check-in: %d bookings due at %s", len(due), now.Format(time.RFC3339))

	for _, candidate := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		var booking models.Booking
		var tr models.Transition
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			b, err := tx.Bookings().FindByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return notFoundOr(err, "booking", candidate.ID)
			}
			if b.Status != models.BookingStatusConfirmed {
				return nil
			}
			tr, err = s.applyEvent(ctx, tx, b, b.DueEvent())
			booking = *b
			return err
		})
		if err != nil {
			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, candidate.ID)
			s.logger.Error("auto check-in failed for booking %s: %v", candidate.ID, err)
			continue
		}
		switch tr.Event {
		case models.EventCheckIn:
			summary.CheckedIn++
		case models.EventCancel:
			summary.Cancelled++
		default:
			continue
		}
		s.forgetProperty(ctx, booking.PropertyID)
		s.publish("booking."+string(tr.Event), &booking, tr.IncomeDelta)
	}
	s.logger.Info("auto check-in done: checkedIn=%d cancelled=%d failed=%d", summary.CheckedIn, summary.Cancelled, summary.Failed)
	return summary, nil
}

// forgetProperty drops the cached property detail whose income or room status just moved.
func (s *BookingService) forgetProperty(ctx context.Context, propertyID string) {
	if err := s.cache.Delete(ctx, constants.CacheKeyProperty+propertyID); err != nil {
		s.logger.Error("cache delete failed for property %s: %v", propertyID, err)
	}
}

func (s *BookingService) publish(eventType string, b *models.Booking, amount int64) {
	msg := notification.NewMessageBuilder(eventType).
		Booking(b.ID, b.PropertyID, b.RoomID).
		Status(int(b.Status), b.Status.Label()).
		Amount(amount).
		At(s.now()).
		Build()
	if err := s.notifier.Publish(msg); err != nil {
		s.logger.Error("cannot publish %s for booking %s: %v", eventType, b.ID, err)
	}
}
