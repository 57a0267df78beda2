package services

import (
	"context"
	"testing"
	"time"

	apperrors "accommodation/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratings(bookingID string, c, f, s, v int) CreateReviewInput {
	return CreateReviewInput{
		BookingID:         bookingID,
		CleanlinessRating: c,
		FacilityRating:    f,
		ServiceRating:     s,
		ValueRating:       v,
		Comment:           "nice stay",
	}
}

// stayed returns a confirmed booking whose check-out has passed
func stayed(t *testing.T, f *fixture, roomID string) *BookingDetail {
	t.Helper()
	b := f.confirmed(t, roomID, day(10), day(12))
	f.clock.Set(day(12).Add(12 * time.Hour))
	return b
}

func TestReview_CreateComputesOverall(t *testing.T) {
	f := newFixture(t)
	b := stayed(t, f, testRoomA)

	r, err := f.svc.Reviews.Create(context.Background(), customer, ratings(b.ID, 5, 4, 4, 3))

	require.NoError(t, err)
	assert.Equal(t, testPropertyID, r.PropertyID)
	assert.Equal(t, customerID, r.CustomerID)
	assert.InDelta(t, 4.0, r.OverallRating, 0.001)
}

func TestReview_Rules(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, f *fixture) string
		check func(t *testing.T, err error)
	}{
		{
			name: "waiting booking",
			setup: func(t *testing.T, f *fixture) string {
				b := f.book(t, testRoomA, day(10), day(12))
				f.clock.Set(day(13))
				return b.ID
			},
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsValidation(err), "got %v", err) },
		},
		{
			name: "before check-out",
			setup: func(t *testing.T, f *fixture) string {
				b := f.confirmed(t, testRoomA, day(10), day(12))
				f.clock.Set(day(11))
				return b.ID
			},
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsValidation(err), "got %v", err) },
		},
		{
			name: "cancelled booking",
			setup: func(t *testing.T, f *fixture) string {
				b := f.confirmed(t, testRoomA, day(10), day(12))
				_, err := f.svc.Bookings.Cancel(context.Background(), customer, b.ID)
				require.NoError(t, err)
				f.clock.Set(day(13))
				return b.ID
			},
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsValidation(err), "got %v", err) },
		},
		{
			name:  "unknown booking",
			setup: func(t *testing.T, f *fixture) string { return "BOOK-404" },
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsNotFound(err), "got %v", err) },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			id := tc.setup(t, f)

			_, err := f.svc.Reviews.Create(context.Background(), customer, ratings(id, 5, 5, 5, 5))

			tc.check(t, err)
		})
	}
}

func TestReview_InvalidRatingRejected(t *testing.T) {
	f := newFixture(t)
	b := stayed(t, f, testRoomA)

	for _, in := range []CreateReviewInput{ratings(b.ID, 0, 5, 5, 5), ratings(b.ID, 5, 6, 5, 5)} {
		_, err := f.svc.Reviews.Create(context.Background(), customer, in)
		assert.True(t, apperrors.IsValidation(err), "got %v", err)
	}
}

func TestReview_OnlyTheBookingCustomer(t *testing.T) {
	f := newFixture(t)
	b := stayed(t, f, testRoomA)

	_, err := f.svc.Reviews.Create(context.Background(), stranger, ratings(b.ID, 5, 5, 5, 5))
	assert.True(t, apperrors.IsAccessDenied(err))

	_, err = f.svc.Reviews.Create(context.Background(), owner, ratings(b.ID, 5, 5, 5, 5))
	assert.True(t, apperrors.IsAccessDenied(err))
}

func TestReview_OnePerBooking(t *testing.T) {
	f := newFixture(t)
	b := stayed(t, f, testRoomA)
	first, err := f.svc.Reviews.Create(context.Background(), customer, ratings(b.ID, 5, 5, 5, 5))
	require.NoError(t, err)

	_, err = f.svc.Reviews.Create(context.Background(), customer, ratings(b.ID, 1, 1, 1, 1))
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, f.svc.Reviews.Delete(context.Background(), customer, first.ID))
	_, err = f.svc.Reviews.Create(context.Background(), customer, ratings(b.ID, 1, 1, 1, 1))
	assert.True(t, apperrors.IsValidation(err), "a deleted review still counts")
}

func TestReview_PropertyAverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.confirmed(t, testRoomA, day(10), day(12))
	b := f.confirmed(t, testRoomB, day(10), day(12))
	f.clock.Set(day(13))

	_, err := f.svc.Reviews.Create(ctx, customer, ratings(a.ID, 5, 5, 5, 5))
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(ctx, customer, ratings(b.ID, 3, 3, 3, 3))
	require.NoError(t, err)

	out, err := f.svc.Reviews.ListByProperty(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.InDelta(t, 4.0, out.AverageRating, 0.001)

	mine, err := f.svc.Reviews.ListMine(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.svc.Reviews.ListByProperty(ctx, "HOT-9999-999")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReview_EmptyPropertyHasZeroAverage(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.Reviews.ListByProperty(context.Background(), testPropertyID)

	require.NoError(t, err)
	assert.Zero(t, out.Total)
	assert.Zero(t, out.AverageRating)
	assert.NotNil(t, out.Reviews)
}

func TestReview_DeleteOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := stayed(t, f, testRoomA)
	r, err := f.svc.Reviews.Create(ctx, customer, ratings(b.ID, 4, 4, 4, 4))
	require.NoError(t, err)

	err = f.svc.Reviews.Delete(ctx, stranger, r.ID)
	assert.True(t, apperrors.IsAccessDenied(err))

	require.NoError(t, f.svc.Reviews.Delete(ctx, customer, r.ID))
	out, err := f.svc.Reviews.ListByProperty(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Zero(t, out.Total)

	assert.True(t, apperrors.IsNotFound(f.svc.Reviews.Delete(ctx, customer, r.ID)))
	assert.True(t, apperrors.IsNotFound(f.svc.Reviews.Delete(ctx, customer, uuid.New())))
}
