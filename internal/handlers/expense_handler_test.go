package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/pagination"
	"survivalist/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn   func(userID uint, title, category, notes string, amount int64, date *time.Time) (*models.Expense, error)
	getUserExpensesFn func(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn  func(userID, expenseID uint) (*models.Expense, error)
	updateExpenseFn   func(userID, expenseID uint, title, category, notes *string, amount *int64, date *time.Time) (*models.Expense, error)
	deleteExpenseFn   func(userID, expenseID uint) error
}

func (m *mockExpenseService) CreateExpense(userID uint, title, category, notes string, amount int64, date *time.Time) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, title, category, notes, amount, date)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID uint, title, category, notes *string, amount *int64, date *time.Time) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, title, category, notes, amount, date)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) SumForMonth(uint, int, time.Month, *string) (int64, error) {
	return 0, nil
}

func (m *mockExpenseService) SumForRange(uint, time.Time, time.Time, *string) (int64, error) {
	return 0, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.GetExpenses)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_ uint, title, category, _ string, amount int64, date *time.Time) (*models.Expense, error) {
				if date != nil {
					t.Error("expected nil date when omitted")
				}
				return &models.Expense{Base: models.Base{ID: 1}, Title: title, Category: category, Amount: amount}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses",
			`{"title":"Groceries","category":"food","amount":120}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["category"] != "food" {
			t.Errorf("expected category food, got %v", expense["category"])
		}
	})

	t.Run("passes explicit date through", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_ uint, _, _, _ string, _ int64, date *time.Time) (*models.Expense, error) {
				if date == nil || date.Year() != 2025 || date.Month() != time.January {
					t.Errorf("expected January 2025 date, got %v", date)
				}
				return &models.Expense{Base: models.Base{ID: 1}}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses",
			`{"title":"Groceries","amount":120,"date":"2025-01-15T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on missing title", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/expenses", `{"amount":120}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("month filter becomes a date window", func(t *testing.T) {
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, _ pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				if filter.FromDate == nil || filter.ToDate == nil {
					t.Fatal("expected month filter to set both dates")
				}
				want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
				if !filter.FromDate.Equal(want) {
					t.Errorf("expected from %v, got %v", want, filter.FromDate)
				}
				if !filter.ToDate.Equal(want.AddDate(0, 1, 0)) {
					t.Errorf("expected to %v, got %v", want.AddDate(0, 1, 0), filter.ToDate)
				}
				resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses?month=2025-01", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on malformed month", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses?month=2025-13", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MONTH")
	})

	t.Run("category filter passed through", func(t *testing.T) {
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, _ pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				if filter.Category == nil || *filter.Category != "food" {
					t.Errorf("expected category food, got %v", filter.Category)
				}
				if filter.FromDate != nil {
					t.Error("expected no date window without a month filter")
				}
				resp := pagination.NewPageResponse([]models.Expense{{Base: models.Base{ID: 1}, Category: "food"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/expenses?category=food", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Errorf("expected 1 expense, got %d", len(data))
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("passes nil for omitted fields", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ uint, title, category, notes *string, amount *int64, date *time.Time) (*models.Expense, error) {
				if title != nil || category != nil || notes != nil || date != nil {
					t.Error("expected nil for omitted fields")
				}
				if amount == nil || *amount != 75 {
					t.Errorf("expected amount 75, got %v", amount)
				}
				return &models.Expense{Base: models.Base{ID: 1}, Amount: 75}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/1", `{"amount":75}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 on missing expense", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(uint, uint, *string, *string, *string, *int64, *time.Time) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/999", `{"amount":75}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

	rec := doRequest(r, "DELETE", "/expenses/1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
