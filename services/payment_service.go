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

	"github.com/google/uuid"
)

// PaymentService handles the bill service callback that confirms a booking payment.
type PaymentService struct {
	store    repository.Store
	bookings *BookingService
	cache    Cache
	logger   logger.Logger
}

func NewPaymentService(store repository.Store, bookings *BookingService, cache Cache, log logger.Logger) *PaymentService {
	if cache == nil {
		cache = NopCache{}
	}
	return &PaymentService{store: store, bookings: bookings, cache: cache, logger: orNop(log)}
}

type PaymentConfirmation struct {
	BookingID            string `json:"bookingId"`
	CustomerID           string `json:"customerId"`
	PreviousStatus       int    `json:"previousStatus"`
	PreviousStatusString string `json:"previousStatusString"`
	NewStatus            int    `json:"newStatus"`
	NewStatusString      string `json:"newStatusString"`
	Replayed             bool   `json:"replayed,omitempty"`
}

// Confirm pays a Waiting booking on behalf of its customer. A repeated callback for the same
// reference is answered with the stored confirmation.
func (s *PaymentService) Confirm(ctx context.Context, serviceReferenceID, customerID string) (*PaymentConfirmation, error) {
	serviceReferenceID = strings.TrimSpace(serviceReferenceID)
	customerID = strings.TrimSpace(customerID)
	if serviceReferenceID == "" {
		return nil, errors.NewValidation("serviceReferenceId is required")
	}
	if customerID == "" {
		return nil, errors.NewValidation("customerId is required")
	}
	payer, err := uuid.Parse(customerID)
	if err != nil {
		return nil, errors.NewValidation("invalid customer id format")
	}

	key := constants.CacheKeyPaymentConfirm + serviceReferenceID
	var previous PaymentConfirmation
	if hit, err := s.cache.Get(ctx, key, &previous); err != nil {
		s.logger.Error("cache read failed for %s: %v", key, err)
	} else if hit && previous.CustomerID == payer.String() && previous.NewStatusString != "" {
		previous.Replayed = true
		return &previous, nil
	}

	b, err := s.store.Bookings().FindByID(ctx, serviceReferenceID)
	if err != nil {
		return nil, notFoundOr(err, "booking", serviceReferenceID)
	}
	if b.CustomerID != payer {
		s.logger.Error("payment callback customer mismatch: booking=%s request=%s owner=%s", b.ID, payer, b.CustomerID)
		return nil, errors.NewAccessDenied("customer id does not match booking owner")
	}
	if b.Status != models.BookingStatusWaiting {
		switch b.Status {
		case models.BookingStatusConfirmed:
			return nil, errors.NewValidation("booking payment is already confirmed")
		case models.BookingStatusCancelled:
			return nil, errors.NewValidation("booking has been cancelled")
		default:
			return nil, errors.NewValidation("booking cannot be paid in status %s", b.Status.Label())
		}
	}

	claimed, err := s.cache.SetNX(ctx, key, PaymentConfirmation{BookingID: b.ID, CustomerID: payer.String()}, constants.CacheTTLPaymentConfirm)
	if err != nil {
		s.logger.Error("cannot claim payment key %s: %v", key, err)
	} else if !claimed {
		return nil, errors.NewAppError(errors.ErrCodeConflict, "payment for booking "+b.ID+" is already being processed", nil)
	}

	who := types.Identity{UserID: payer, Role: constants.RoleCustomer, Name: b.CustomerName, Email: b.CustomerEmail}
	paid, err := s.bookings.Pay(ctx, who, b.ID)
	if err != nil {
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Error("cannot release payment key %s: %v", key, delErr)
		}
		return nil, err
	}

	out := &PaymentConfirmation{
		BookingID:            paid.ID,
		CustomerID:           payer.String(),
		PreviousStatus:       int(models.BookingStatusWaiting),
		PreviousStatusString: models.BookingStatusWaiting.Label(),
		NewStatus:            int(paid.Status),
		NewStatusString:      paid.Status.Label(),
	}
	if err := s.cache.Set(ctx, key, out, constants.CacheTTLPaymentConfirm); err != nil {
		s.logger.Error("cache write failed for %s: %v", key, err)
	}
	s.logger.Info("payment confirmed: booking=%s customer=%s", b.ID, payer)
	return out, nil
}
