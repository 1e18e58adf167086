package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/month"
)

// statsService computes expense rollups against plans. These are plain
// sums over filtered date ranges; the heavy lifting is the same
// SumForMonth/SumForRange aggregation the goal evaluation uses.
type statsService struct {
	db       *gorm.DB
	expenses ExpenseSummer
	now      func() time.Time
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB, expenses ExpenseSummer) StatsServicer {
	return &statsService{db: db, expenses: expenses, now: time.Now}
}

// MonthlyStats returns income vs spending for the plan of one month.
// An empty month string means the current month.
func (s *statsService) MonthlyStats(userID uint, monthStr string) (*MonthlyStats, error) {
	monthDate, err := s.resolveMonth(monthStr)
	if err != nil {
		return nil, err
	}

	plan, err := s.planForMonth(userID, monthDate)
	if err != nil {
		return nil, err
	}

	total, err := s.expenses.SumForMonth(userID, monthDate.Year(), monthDate.Month(), nil)
	if err != nil {
		return nil, err
	}

	return &MonthlyStats{
		Month:        month.Format(monthDate),
		Income:       plan.Income,
		TotalExpense: total,
		NetSavings:   plan.Income - total,
	}, nil
}

// YearlyStats rolls up twelve months of plans and expenses. A nil year
// means the trailing twelve months ending now.
func (s *statsService) YearlyStats(userID uint, year *int) (*YearlyStats, error) {
	months := s.windowMonths(year)
	from, to := months[0], months[len(months)-1].AddDate(0, 1, 0)

	breakdown := make(map[string]MonthBreakdown)
	var totalIncome, planExpense int64
	for _, m := range months {
		plan, err := s.planForMonth(userID, m)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoPlanForMonth) {
				continue
			}
			return nil, err
		}

		total, err := s.expenses.SumForMonth(userID, m.Year(), m.Month(), nil)
		if err != nil {
			return nil, err
		}

		breakdown[month.Format(m)] = MonthBreakdown{
			Income:       plan.Income,
			TotalExpense: total,
			NetSavings:   plan.Income - total,
		}
		totalIncome += plan.Income
		planExpense += total
	}

	totalExpense, err := s.expenses.SumForRange(userID, from, to, nil)
	if err != nil {
		return nil, err
	}

	return &YearlyStats{
		Range:            fmt.Sprintf("%s to %s", month.Format(months[0]), month.Format(months[len(months)-1])),
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		NetSavings:       totalIncome - totalExpense,
		UnplannedExpense: totalExpense - planExpense,
		PlanCount:        len(breakdown),
		MonthlyBreakdown: breakdown,
	}, nil
}

// MonthlyCategoryStats returns one category's allocation vs spending
// for the plan of one month.
func (s *statsService) MonthlyCategoryStats(userID uint, category, monthStr string) (*MonthlyCategoryStats, error) {
	monthDate, err := s.resolveMonth(monthStr)
	if err != nil {
		return nil, err
	}

	amount, err := s.categoryAllocation(userID, monthDate, category)
	if err != nil {
		return nil, err
	}

	total, err := s.expenses.SumForMonth(userID, monthDate.Year(), monthDate.Month(), &category)
	if err != nil {
		return nil, err
	}

	return &MonthlyCategoryStats{
		Month:        month.Format(monthDate),
		Category:     category,
		Amount:       amount,
		TotalExpense: total,
		NetSavings:   amount - total,
	}, nil
}

// YearlyCategoryStats rolls up twelve months of one category's
// allocations and expenses.
func (s *statsService) YearlyCategoryStats(userID uint, category string, year *int) (*YearlyCategoryStats, error) {
	months := s.windowMonths(year)
	from, to := months[0], months[len(months)-1].AddDate(0, 1, 0)

	breakdown := make(map[string]CategoryMonthBreakdown)
	var totalAmount, planExpense int64
	for _, m := range months {
		amount, err := s.categoryAllocation(userID, m, category)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoPlanForMonth) || errors.Is(err, apperrors.ErrNoCategoryMonth) {
				continue
			}
			return nil, err
		}

		total, err := s.expenses.SumForMonth(userID, m.Year(), m.Month(), &category)
		if err != nil {
			return nil, err
		}

		breakdown[month.Format(m)] = CategoryMonthBreakdown{
			Amount:       amount,
			TotalExpense: total,
			NetSavings:   amount - total,
		}
		totalAmount += amount
		planExpense += total
	}

	totalExpense, err := s.expenses.SumForRange(userID, from, to, &category)
	if err != nil {
		return nil, err
	}

	return &YearlyCategoryStats{
		Range:            fmt.Sprintf("%s to %s", month.Format(months[0]), month.Format(months[len(months)-1])),
		Category:         category,
		TotalAmount:      totalAmount,
		TotalExpense:     totalExpense,
		NetSavings:       totalAmount - totalExpense,
		UnplannedExpense: totalExpense - planExpense,
		PlanCount:        len(breakdown),
		MonthlyBreakdown: breakdown,
	}, nil
}

// resolveMonth parses a "YYYY-MM" string, defaulting to the current
// month when empty.
func (s *statsService) resolveMonth(monthStr string) (time.Time, error) {
	if monthStr == "" {
		return month.Normalize(s.now()), nil
	}
	return month.Parse(monthStr)
}

// windowMonths returns the twelve months of the given year, or the
// trailing twelve months when year is nil.
func (s *statsService) windowMonths(year *int) []time.Time {
	var start time.Time
	if year != nil {
		start = time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		start = month.Normalize(s.now()).AddDate(0, -11, 0)
	}

	months := make([]time.Time, 0, 12)
	for i := 0; i < 12; i++ {
		months = append(months, start.AddDate(0, i, 0))
	}
	return months
}

// planForMonth finds the user's plan whose month matches.
func (s *statsService) planForMonth(userID uint, monthDate time.Time) (*models.Plan, error) {
	from := month.Normalize(monthDate)
	to := from.AddDate(0, 1, 0)

	var plan models.Plan
	err := s.db.Where("user_id = ? AND month >= ? AND month < ?", userID, from, to).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoPlanForMonth
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// categoryAllocation returns the PlanItem amount for a category under
// the month's plan.
func (s *statsService) categoryAllocation(userID uint, monthDate time.Time, category string) (int64, error) {
	plan, err := s.planForMonth(userID, monthDate)
	if err != nil {
		return 0, err
	}

	var item models.PlanItem
	err = s.db.Where("plan_id = ? AND category = ?", plan.ID, category).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrNoCategoryMonth
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item.Amount, nil
}
