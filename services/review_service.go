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

	"github.com/google/uuid"
)

type ReviewService struct {
	store  repository.Store
	logger logger.Logger
	now    func() time.Time
}

func NewReviewService(store repository.Store, log logger.Logger, now func() time.Time) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{store: store, logger: orNop(log), now: now}
}

type CreateReviewInput struct {
	BookingID         string
	CleanlinessRating int
	FacilityRating    int
	ServiceRating     int
	ValueRating       int
	Comment           string
}

type PropertyReviews struct {
	PropertyID    string          `json:"propertyId"`
	AverageRating float64         `json:"averageRating"`
	Total         int             `json:"totalReviews"`
	Reviews       []models.Review `json:"reviews"`
}

// Create records the customer's review of a finished stay: the booking must be Confirmed or
// Done and its check-out reached. One review per booking.
func (s *ReviewService) Create(ctx context.Context, who types.Identity, in CreateReviewInput) (*models.Review, error) {
	if !who.IsCustomer() {
		return nil, errors.NewAccessDenied("only customers can write reviews")
	}
	r := &models.Review{
		ID:                uuid.New(),
		BookingID:         in.BookingID,
		CustomerID:        who.UserID,
		CleanlinessRating: in.CleanlinessRating,
		FacilityRating:    in.FacilityRating,
		ServiceRating:     in.ServiceRating,
		ValueRating:       in.ValueRating,
		Comment:           in.Comment,
		ActiveStatus:      constants.ActiveStatusActive,
	}
	if err := r.ValidateRatings(); err != nil {
		return nil, errors.NewValidation("%s", err.Error())
	}
	r.ComputeOverall()

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().FindByID(ctx, in.BookingID)
		if err != nil {
			return notFoundOr(err, "booking", in.BookingID)
		}
		if b.CustomerID != who.UserID {
			return errors.NewAccessDenied("you can only review your own bookings")
		}
		if b.Status != models.BookingStatusConfirmed && b.Status != models.BookingStatusDone {
			return errors.NewValidation("only confirmed or completed bookings can be reviewed, booking is %s", b.Status.Label())
		}
		if s.now().Before(b.CheckOut) {
			return errors.NewValidation("booking %s can be reviewed after check-out", b.ID)
		}
		if _, err := tx.Reviews().FindByBooking(ctx, b.ID); err == nil {
			return errors.NewValidation("booking %s has already been reviewed", b.ID)
		} else if !errors.IsNotFound(err) {
			return errors.NewDBError("cannot check reviews", err)
		}
		r.PropertyID = b.PropertyID
		if err := tx.Reviews().Create(ctx, r); err != nil {
			if errors.Is(err, errors.ErrDuplicateKey) {
				return errors.NewValidation("booking %s has already been reviewed", b.ID)
			}
			return errors.NewDBError("cannot create review", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("review created: id=%s booking=%s overall=%.2f", r.ID, r.BookingID, r.OverallRating)
	return r, nil
}

func activeReviews(list []models.Review) []models.Review {
	out := []models.Review{}
	for _, r := range list {
		if r.IsActive() {
			out = append(out, r)
		}
	}
	return out
}

func (s *ReviewService) ListByProperty(ctx context.Context, propertyID string) (*PropertyReviews, error) {
	if _, err := s.store.Properties().FindByID(ctx, propertyID); err != nil {
		return nil, notFoundOr(err, "property", propertyID)
	}
	list, err := s.store.Reviews().ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDBError("cannot list reviews", err)
	}
	reviews := activeReviews(list)
	out := &PropertyReviews{PropertyID: propertyID, Total: len(reviews), Reviews: reviews}
	if len(reviews) > 0 {
		var sum float64
		for _, r := range reviews {
			sum += r.OverallRating
		}
		out.AverageRating = sum / float64(len(reviews))
	}
	return out, nil
}

func (s *ReviewService) ListMine(ctx context.Context, who types.Identity) ([]models.Review, error) {
	list, err := s.store.Reviews().ListByCustomer(ctx, who.UserID)
	if err != nil {
		return nil, errors.NewDBError("cannot list reviews", err)
	}
	return activeReviews(list), nil
}

// Delete soft deletes a review; only its author may do so.
func (s *ReviewService) Delete(ctx context.Context, who types.Identity, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		r, err := tx.Reviews().FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "review", id.String())
		}
		if !r.IsActive() {
			return errors.NewNotFound("review", id.String())
		}
		if r.CustomerID != who.UserID {
			return errors.NewAccessDenied("you can only delete your own reviews")
		}
		r.ActiveStatus = constants.ActiveStatusInactive
		if err := tx.Reviews().Update(ctx, r); err != nil {
			return errors.NewDBError("cannot delete review", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("review deleted: id=%s", id)
	return nil
}
