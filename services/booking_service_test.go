package services

import (
	"context"
	"testing"
	"time"

	"accommodation/constants"
	apperrors "accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking_PricesStayAndHoldsRoom(t *testing.T) {
	f := newFixture(t)

	b := f.book(t, testRoomA, day(10), day(12))

	assert.Equal(t, models.BookingStatusWaiting, b.Status)
	assert.Equal(t, 2, b.TotalDays)
	assert.Equal(t, 2*nightlyPrice, b.TotalPrice)
	assert.Equal(t, testPropertyID, b.PropertyID)
	assert.Equal(t, customerID, b.CustomerID)
	assert.Equal(t, "Waiting for Payment", b.StatusText)
	assert.True(t, b.Actions.CanPay)
	assert.Equal(t, constants.RoomStatusBooked, f.room(t, testRoomA).AvailabilityStatus)
	assert.Zero(t, f.income(t))
}

func TestCreateBooking_BreakfastAddsPerNight(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Bookings.Create(context.Background(), customer, CreateBookingInput{
		RoomID: testRoomA, CheckIn: day(10), CheckOut: day(13), Capacity: 1, IsBreakfast: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 3*nightlyPrice+3*50_000, b.TotalPrice)
}

func TestCreateBooking_BackToBackAllowed(t *testing.T) {
	f := newFixture(t)

	f.book(t, testRoomA, day(10), day(12))
	second := f.book(t, testRoomA, day(12), day(14))

	assert.Equal(t, models.BookingStatusWaiting, second.Status)
}

func TestCreateBooking_OverlapRejected(t *testing.T) {
	f := newFixture(t)
	f.book(t, testRoomA, day(10), day(12))

	_, err := f.svc.Bookings.Create(context.Background(), customer, CreateBookingInput{
		RoomID: testRoomA, CheckIn: day(11), CheckOut: day(13), Capacity: 1,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.ErrorIs(t, err, apperrors.ErrRoomNotAvailable)

	other, err := f.svc.Bookings.Create(context.Background(), customer, CreateBookingInput{
		RoomID: testRoomB, CheckIn: day(11), CheckOut: day(13), Capacity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, testRoomB, other.RoomID)
}

func TestCreateBooking_CancelledBookingFreesDates(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))
	_, err := f.svc.Bookings.Cancel(context.Background(), customer, b.ID)
	require.NoError(t, err)

	again := f.book(t, testRoomA, day(10), day(12))

	assert.NotEqual(t, b.ID, again.ID)
}

func TestCreateBooking_MaintenanceBlocks(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Maintenance.Create(context.Background(), owner, testRoomA, day(11), day(12))
	require.NoError(t, err)

	_, err = f.svc.Bookings.Create(context.Background(), customer, CreateBookingInput{
		RoomID: testRoomA, CheckIn: day(10), CheckOut: day(12), Capacity: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrRoomNotAvailable)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateBookingInput
	}{
		{"check-in in the past", CreateBookingInput{RoomID: testRoomA, CheckIn: day(1).AddDate(0, 0, -1), CheckOut: day(3), Capacity: 1}},
		{"check-out before check-in", CreateBookingInput{RoomID: testRoomA, CheckIn: day(5), CheckOut: day(4), Capacity: 1}},
		{"same day", CreateBookingInput{RoomID: testRoomA, CheckIn: day(5), CheckOut: day(5), Capacity: 1}},
		{"zero capacity", CreateBookingInput{RoomID: testRoomA, CheckIn: day(5), CheckOut: day(6), Capacity: 0}},
		{"capacity above room type", CreateBookingInput{RoomID: testRoomA, CheckIn: day(5), CheckOut: day(6), Capacity: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Bookings.Create(ctx, customer, tc.in)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}

	_, err := f.svc.Bookings.Create(ctx, customer, CreateBookingInput{RoomID: "missing", CheckIn: day(5), CheckOut: day(6), Capacity: 1})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateBooking_TodayIsBookable(t *testing.T) {
	f := newFixture(t)

	b := f.book(t, testRoomA, day(1), day(2))

	assert.True(t, day(1).Equal(b.CheckIn), "got %v", b.CheckIn)
}

func TestCreateBooking_InactiveRoomRejected(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, testRoomA)
	room.ActiveRoom = constants.ActiveStatusInactive
	require.NoError(t, f.store.Rooms().Update(context.Background(), room))

	_, err := f.svc.Bookings.Create(context.Background(), customer, CreateBookingInput{
		RoomID: testRoomA, CheckIn: day(5), CheckOut: day(6), Capacity: 1,
	})

	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateBooking_SameInstantGetsDistinctIDs(t *testing.T) {
	f := newFixture(t)

	first := f.book(t, testRoomA, day(10), day(11))
	second := f.book(t, testRoomA, day(11), day(12))

	assert.NotEqual(t, first.ID, second.ID)
}

func TestPay_ConfirmsAndCreditsIncome(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))

	paid, err := f.svc.Bookings.Pay(context.Background(), customer, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, paid.Status)
	assert.Equal(t, int64(1_000_000), f.income(t))

	_, err = f.svc.Bookings.Pay(context.Background(), customer, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
	assert.Equal(t, int64(1_000_000), f.income(t))
}

func TestCancel_WaitingLeavesIncome(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))

	out, err := f.svc.Bookings.Cancel(context.Background(), customer, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, out.Status)
	assert.Zero(t, f.income(t))
	assert.Equal(t, constants.RoomStatusAvailable, f.room(t, testRoomA).AvailabilityStatus)
}

func TestCancel_ConfirmedReversesIncome(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, testRoomA, day(10), day(12))
	require.Equal(t, int64(1_000_000), f.income(t))

	_, err := f.svc.Bookings.Cancel(context.Background(), customer, b.ID)

	require.NoError(t, err)
	assert.Zero(t, f.income(t))
	entries, err := f.store.Ledger().ListByProperty(context.Background(), testPropertyID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(-1_000_000), entries[1].Amount)
	assert.Equal(t, models.EventCancel, entries[1].Event)
}

func TestCancel_KeepsRoomBookedWhileAnotherHolds(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, testRoomA, day(10), day(12))
	f.book(t, testRoomA, day(14), day(15))

	_, err := f.svc.Bookings.Cancel(context.Background(), customer, first.ID)

	require.NoError(t, err)
	assert.Equal(t, constants.RoomStatusBooked, f.room(t, testRoomA).AvailabilityStatus)
}

func TestCancel_TerminalRejected(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))
	_, err := f.svc.Bookings.Cancel(context.Background(), customer, b.ID)
	require.NoError(t, err)

	_, err = f.svc.Bookings.Cancel(context.Background(), customer, b.ID)

	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestUpdate_ConfirmedLongerStayAddsExtraPay(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, testRoomA, day(10), day(12))

	out, err := f.svc.Bookings.Update(context.Background(), customer, b.ID, UpdateBookingInput{
		CheckIn: day(10), CheckOut: day(12), Capacity: 2, IsBreakfast: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1_100_000), out.TotalPrice)
	assert.Equal(t, int64(100_000), out.ExtraPay)
	assert.Equal(t, models.BookingStatusConfirmed, out.Status)
	assert.True(t, out.Actions.CanPay)
	assert.Equal(t, int64(1_000_000), f.income(t))

	settled, err := f.svc.Bookings.Pay(context.Background(), customer, b.ID)
	require.NoError(t, err)
	assert.Zero(t, settled.ExtraPay)
	assert.Equal(t, int64(1_100_000), f.income(t))
}

func TestUpdate_ExtraPayOfTwoHundredThousand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.RoomTypes().Update(context.Background(), &models.RoomType{
		ID: testRoomType, PropertyID: testPropertyID, Name: "Deluxe Room", Floor: 1,
		Price: 200_000, Capacity: 2, ActiveStatus: constants.ActiveStatusActive,
	}))
	b := f.confirmed(t, testRoomA, day(10), day(15))
	require.Equal(t, int64(1_000_000), b.TotalPrice)

	out, err := f.svc.Bookings.Update(context.Background(), customer, b.ID, UpdateBookingInput{
		CheckIn: day(10), CheckOut: day(16), Capacity: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1_200_000), out.TotalPrice)
	assert.Equal(t, int64(200_000), out.ExtraPay)
}

func TestUpdate_ConfirmedShorterStayMovesToRefundRequested(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, testRoomA, day(10), day(13))

	out, err := f.svc.Bookings.Update(context.Background(), customer, b.ID, UpdateBookingInput{
		CheckIn: day(10), CheckOut: day(12), Capacity: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRefundRequested, out.Status)
	assert.Equal(t, nightlyPrice, out.Refund)
	assert.Equal(t, int64(1_500_000), f.income(t))

	_, err = f.svc.Bookings.PayoutRefund(context.Background(), customer, b.ID)
	assert.True(t, apperrors.IsAccessDenied(err))

	done, err := f.svc.Bookings.PayoutRefund(context.Background(), owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDone, done.Status)
	assert.Equal(t, int64(1_000_000), f.income(t))
	assert.Equal(t, constants.RoomStatusAvailable, f.room(t, testRoomA).AvailabilityStatus)
}

func TestUpdate_WaitingReprices(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))

	out, err := f.svc.Bookings.Update(context.Background(), customer, b.ID, UpdateBookingInput{
		CheckIn: day(10), CheckOut: day(11), Capacity: 1, CustomerPhone: "0899",
	})

	require.NoError(t, err)
	assert.Equal(t, nightlyPrice, out.TotalPrice)
	assert.Zero(t, out.Refund)
	assert.Zero(t, out.ExtraPay)
	assert.Equal(t, "0899", out.CustomerPhone)
	assert.Equal(t, customer.Name, out.CustomerName)
}

func TestUpdate_OverlapWithOtherBookingRejected(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))
	f.book(t, testRoomA, day(12), day(14))

	_, err := f.svc.Bookings.Update(context.Background(), customer, b.ID, UpdateBookingInput{
		CheckIn: day(10), CheckOut: day(13), Capacity: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrRoomNotAvailable)
}

func TestUpdate_CancelledRejected(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))
	_, err := f.svc.Bookings.Cancel(context.Background(), customer, b.ID)
	require.NoError(t, err)

	_, err = f.svc.Bookings.Update(context.Background(), customer, b.ID, UpdateBookingInput{
		CheckIn: day(10), CheckOut: day(11), Capacity: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestRequestRefund_WaitingRejected(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))

	_, err := f.svc.Bookings.RequestRefund(context.Background(), customer, b.ID)

	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestRequestRefund_ConfirmedWithoutRefundRejected(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, testRoomA, day(10), day(12))

	_, err := f.svc.Bookings.RequestRefund(context.Background(), customer, b.ID)

	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestAuthorization(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, testRoomA, day(10), day(12))
	ctx := context.Background()

	_, err := f.svc.Bookings.Get(ctx, stranger, b.ID)
	assert.True(t, apperrors.IsAccessDenied(err))

	_, err = f.svc.Bookings.Cancel(ctx, stranger, b.ID)
	assert.True(t, apperrors.IsAccessDenied(err))

	_, err = f.svc.Bookings.Get(ctx, owner, b.ID)
	assert.NoError(t, err)

	_, err = f.svc.Bookings.Get(ctx, admin, b.ID)
	assert.NoError(t, err)

	_, err = f.svc.Bookings.Get(ctx, customer, "BOOK-missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestList_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, testRoomA, day(10), day(12))
	_, err := f.svc.Bookings.Create(ctx, stranger, CreateBookingInput{
		RoomID: testRoomB, CheckIn: day(10), CheckOut: day(12), Capacity: 1,
		CustomerName: stranger.Name, CustomerEmail: stranger.Email,
	})
	require.NoError(t, err)

	mine, err := f.svc.Bookings.List(ctx, customer, repository.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.Bookings.List(ctx, owner, repository.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	waiting := models.BookingStatusWaiting
	filtered, err := f.svc.Bookings.List(ctx, admin, repository.BookingFilter{Status: &waiting, PropertyID: testPropertyID})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	other := ownerID
	other[0] = 0x99
	nobody, err := f.svc.Bookings.List(ctx, ownerWith(other), repository.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, nobody)
}

func TestAutoCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clean := f.confirmed(t, testRoomA, day(5), day(6))

	refunded := f.confirmed(t, testRoomB, day(5), day(8))
	refunded.Refund = 100_000
	refunded.TotalPrice = 1_000_000
	require.NoError(t, f.store.Bookings().Update(ctx, &refunded.Booking))

	unpaid := f.confirmed(t, testRoomA, day(8), day(10))
	_, err := f.svc.Bookings.Update(ctx, customer, unpaid.ID, UpdateBookingInput{CheckIn: day(8), CheckOut: day(11), Capacity: 2})
	require.NoError(t, err)

	future := f.confirmed(t, testRoomB, day(20), day(21))
	waiting := f.book(t, testRoomA, day(6), day(7))

	incomeBefore := f.income(t)
	f.clock.Set(day(9).Add(time.Hour))

	summary, err := f.svc.Bookings.AutoCheckIn(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.CheckedIn)
	assert.Equal(t, 1, summary.Cancelled)
	assert.Zero(t, summary.Failed)

	status := func(id string) models.BookingStatus {
		b, err := f.store.Bookings().FindByID(ctx, id)
		require.NoError(t, err)
		return b.Status
	}
	assert.Equal(t, models.BookingStatusDone, status(clean.ID))
	assert.Equal(t, models.BookingStatusDone, status(refunded.ID))
	assert.Equal(t, models.BookingStatusCancelled, status(unpaid.ID))
	assert.Equal(t, models.BookingStatusConfirmed, status(future.ID))
	assert.Equal(t, models.BookingStatusWaiting, status(waiting.ID))

	// clean: +500k, refunded: +900k, unpaid: reverses the 1,000,000 paid up front
	assert.Equal(t, incomeBefore+nightlyPrice+900_000-1_000_000, f.income(t))

	again, err := f.svc.Bookings.AutoCheckIn(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.CheckedIn+again.Cancelled)
}

func TestAutoCheckIn_RefundOnTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.confirmed(t, testRoomA, day(5), day(7))
	b.Refund = 100_000
	require.NoError(t, f.store.Bookings().Update(ctx, &b.Booking))
	before := f.income(t)
	f.clock.Set(day(5))

	_, err := f.svc.Bookings.AutoCheckIn(ctx)

	require.NoError(t, err)
	assert.Equal(t, before+900_000, f.income(t))
}

func TestTransitions_PublishEvents(t *testing.T) {
	f := newFixture(t)
	n := &mockNotifier{}
	n.On("Publish", mock.MatchedBy(func(ev notification.BookingEvent) bool {
		return ev.Type == "booking.created" && ev.Status == int(models.BookingStatusWaiting)
	})).Return(nil).Once()
	n.On("Publish", mock.MatchedBy(func(ev notification.BookingEvent) bool {
		return ev.Type == "booking.pay" && ev.Amount == 1_000_000
	})).Return(nil).Once()
	f.svc.Bookings.notifier = n

	b := f.book(t, testRoomA, day(10), day(12))
	_, err := f.svc.Bookings.Pay(context.Background(), customer, b.ID)

	require.NoError(t, err)
	n.AssertExpectations(t)
}

func TestTransitions_DropCachedProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Properties.Get(ctx, testPropertyID)
	require.NoError(t, err)
	require.True(t, f.cache.has(constants.CacheKeyProperty+testPropertyID))

	f.confirmed(t, testRoomA, day(10), day(12))

	assert.False(t, f.cache.has(constants.CacheKeyProperty+testPropertyID))
	p, err := f.svc.Properties.Get(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), p.Income)
}
