package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/pagination"
)

// expenseService handles expense business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records an expense. A nil date defaults to today.
func (s *expenseService) CreateExpense(userID uint, title, category, notes string, amount int64, date *time.Time) (*models.Expense, error) {
	expenseDate := time.Now().UTC().Truncate(24 * time.Hour)
	if date != nil {
		expenseDate = *date
	}

	expense := &models.Expense{
		UserID:   userID,
		Title:    title,
		Category: category,
		Notes:    notes,
		Amount:   amount,
		Date:     expenseDate,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetUserExpenses returns a paginated list of expenses with optional
// category and date-range filters, newest first.
func (s *expenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date < ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates an expense's fields.
func (s *expenseService) UpdateExpense(userID, expenseID uint, title, category, notes *string, amount *int64, date *time.Time) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if category != nil {
		updates["category"] = *category
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if date != nil {
		updates["date"] = *date
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return expense, nil
}

// DeleteExpense removes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SumForMonth returns the user's total expense amount in a calendar
// month, optionally restricted to one category. Zero when no rows match.
func (s *expenseService) SumForMonth(userID uint, year int, m time.Month, category *string) (int64, error) {
	from := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	return s.SumForRange(userID, from, from.AddDate(0, 1, 0), category)
}

// SumForRange returns the user's total expense amount over [from, to).
func (s *expenseService) SumForRange(userID uint, from, to time.Time, category *string) (int64, error) {
	q := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to)
	if category != nil {
		q = q.Where("category = ?", *category)
	}

	var total int64
	if err := q.Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
