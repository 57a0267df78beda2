package services

import (
	"context"
	"sort"
	"time"

	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/types"
	"accommodation/utils"
)

type StatisticsService struct {
	store repository.Store
	loc   *time.Location
}

func NewStatisticsService(store repository.Store, loc *time.Location) *StatisticsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticsService{store: store, loc: loc}
}

type MonthlyIncome struct {
	Month      int                     `json:"month"`
	Year       int                     `json:"year"`
	Total      int64                   `json:"totalIncome"`
	Properties []models.PropertyIncome `json:"properties"`
}

// MonthlyIncome folds ledger entries posted during the month per property, keeping positive
// totals only, highest first.
func (s *StatisticsService) MonthlyIncome(ctx context.Context, who types.Identity, year, month int) (*MonthlyIncome, error) {
	if month < 1 || month > 12 {
		return nil, errors.NewValidation("month must be between 1 and 12")
	}
	if year < 1 {
		return nil, errors.NewValidation("invalid year %d", year)
	}
	if !who.IsOwner() && !who.IsSuperadmin() {
		return nil, errors.NewAccessDenied("statistics are available to owners and superadmins")
	}

	from, to := utils.MonthRange(year, month, s.loc)
	sums, err := s.store.Ledger().SumByPropertyBetween(ctx, from, to)
	if err != nil {
		return nil, errors.NewDBError("cannot read ledger", err)
	}

	f := repository.PropertyFilter{}
	if who.IsOwner() {
		owner := who.UserID
		f.OwnerID = &owner
	}
	props, err := s.store.Properties().List(ctx, f)
	if err != nil {
		return nil, errors.NewDBError("cannot list properties", err)
	}

	out := &MonthlyIncome{Month: month, Year: year, Properties: []models.PropertyIncome{}}
	for _, p := range props {
		income := sums[p.ID]
		if income <= 0 {
			continue
		}
		out.Properties = append(out.Properties, models.PropertyIncome{PropertyID: p.ID, PropertyName: p.Name, Income: income})
		out.Total += income
	}
	sort.SliceStable(out.Properties, func(i, j int) bool {
		if out.Properties[i].Income == out.Properties[j].Income {
			return out.Properties[i].PropertyID < out.Properties[j].PropertyID
		}
		return out.Properties[i].Income > out.Properties[j].Income
	})
	return out, nil
}
