package services

import (
	"context"
	"time"

	"accommodation/commands"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/logger"
)

// LedgerService is the only writer of property income.
type LedgerService struct {
	store  repository.Store
	logger logger.Logger
	now    func() time.Time
}

func NewLedgerService(store repository.Store, log logger.Logger, now func() time.Time) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{store: store, logger: orNop(log), now: now}
}

// Post appends a signed entry on tx and bumps the cached income. Zero amounts are skipped.
func (s *LedgerService) Post(ctx context.Context, tx repository.Store, propertyID, bookingID string, event models.BookingEvent, amount int64) error {
	if amount == 0 {
		return nil
	}
	entry := &models.IncomeEntry{
		PropertyID: propertyID,
		BookingID:  bookingID,
		Event:      event,
		Amount:     amount,
		CreatedAt:  s.now(),
	}
	if err := commands.NewPostIncomeCommand(entry).Execute(ctx, tx); err != nil {
		return errors.NewDBError("cannot post income", err)
	}
	s.logger.Info("ledger: property=%s booking=%s event=%s amount=%d", propertyID, bookingID, event, amount)
	return nil
}

// CreditedFor is the net amount the ledger holds for one booking.
func (s *LedgerService) CreditedFor(ctx context.Context, tx repository.Store, bookingID string) (int64, error) {
	sum, err := tx.Ledger().SumByBooking(ctx, bookingID)
	if err != nil {
		return 0, errors.NewDBError("cannot read ledger", err)
	}
	return sum, nil
}

type LedgerView struct {
	PropertyID string               `json:"propertyId"`
	Balance    int64                `json:"balance"`
	Cached     int64                `json:"income"`
	Entries    []models.IncomeEntry `json:"entries"`
}

// Statement folds all entries of a property next to the cached income.
func (s *LedgerService) Statement(ctx context.Context, propertyID string) (*LedgerView, error) {
	p, err := s.store.Properties().FindByID(ctx, propertyID)
	if err != nil {
		return nil, notFoundOr(err, "property", propertyID)
	}
	entries, err := s.store.Ledger().ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDBError("cannot read ledger", err)
	}
	var balance int64
	for _, e := range entries {
		balance += e.Amount
	}
	if balance != p.Income {
		s.logger.Error("ledger drift: property=%s balance=%d cached=%d", propertyID, balance, p.Income)
	}
	if entries == nil {
		entries = []models.IncomeEntry{}
	}
	return &LedgerView{PropertyID: propertyID, Balance: balance, Cached: p.Income, Entries: entries}, nil
}

// Balance is the fold of every entry of the property.
func (s *LedgerService) Balance(ctx context.Context, propertyID string) (int64, error) {
	sum, err := s.store.Ledger().SumByProperty(ctx, propertyID)
	if err != nil {
		return 0, errors.NewDBError("cannot read ledger", err)
	}
	return sum, nil
}

// notFoundOr turns a repository miss into a NotFound AppError and anything else into DB_ERROR.
func notFoundOr(err error, entity, id string) error {
	if errors.IsNotFound(err) {
		return errors.NewNotFound(entity, id)
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewDBError("cannot load "+entity, err)
}
