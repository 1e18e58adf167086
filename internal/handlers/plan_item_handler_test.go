package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/services"
)

// --- mock plan item service ---

type mockPlanItemService struct {
	createPlanItemFn  func(userID, planID uint, category, notes string, amount int64) (*models.PlanItem, error)
	getPlanItemsFn    func(userID, planID uint) ([]models.PlanItem, error)
	getPlanItemByIDFn func(userID, itemID uint) (*models.PlanItem, error)
	updatePlanItemFn  func(userID, itemID uint, planID *uint, category, notes *string, amount *int64) (*models.PlanItem, error)
	deletePlanItemFn  func(userID, itemID uint) error
}

func (m *mockPlanItemService) CreatePlanItem(userID, planID uint, category, notes string, amount int64) (*models.PlanItem, error) {
	if m.createPlanItemFn != nil {
		return m.createPlanItemFn(userID, planID, category, notes, amount)
	}
	return &models.PlanItem{}, nil
}

func (m *mockPlanItemService) GetPlanItems(userID, planID uint) ([]models.PlanItem, error) {
	if m.getPlanItemsFn != nil {
		return m.getPlanItemsFn(userID, planID)
	}
	return []models.PlanItem{}, nil
}

func (m *mockPlanItemService) GetPlanItemByID(userID, itemID uint) (*models.PlanItem, error) {
	if m.getPlanItemByIDFn != nil {
		return m.getPlanItemByIDFn(userID, itemID)
	}
	return &models.PlanItem{}, nil
}

func (m *mockPlanItemService) UpdatePlanItem(userID, itemID uint, planID *uint, category, notes *string, amount *int64) (*models.PlanItem, error) {
	if m.updatePlanItemFn != nil {
		return m.updatePlanItemFn(userID, itemID, planID, category, notes, amount)
	}
	return &models.PlanItem{}, nil
}

func (m *mockPlanItemService) DeletePlanItem(userID, itemID uint) error {
	if m.deletePlanItemFn != nil {
		return m.deletePlanItemFn(userID, itemID)
	}
	return nil
}

var _ services.PlanItemServicer = (*mockPlanItemService)(nil)

func setupPlanItemRouter(handler *PlanItemHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/plan-items", handler.CreatePlanItem)
	auth.GET("/plan-items", handler.GetPlanItems)
	auth.GET("/plan-items/:id", handler.GetPlanItem)
	auth.PUT("/plan-items/:id", handler.UpdatePlanItem)
	auth.DELETE("/plan-items/:id", handler.DeletePlanItem)
	return r
}

func TestPlanItemHandler_CreatePlanItem(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockPlanItemService{
			createPlanItemFn: func(_ uint, planID uint, category, _ string, amount int64) (*models.PlanItem, error) {
				return &models.PlanItem{Base: models.Base{ID: 1}, PlanID: planID, Category: category, Amount: amount}, nil
			},
		}
		r := setupPlanItemRouter(NewPlanItemHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/plan-items",
			`{"plan_id":42,"category":"food","amount":300}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		item := result["plan_item"].(map[string]interface{})
		if item["category"] != "food" {
			t.Errorf("expected category food, got %v", item["category"])
		}
	})

	t.Run("returns 400 on budget overflow", func(t *testing.T) {
		svc := &mockPlanItemService{
			createPlanItemFn: func(uint, uint, string, string, int64) (*models.PlanItem, error) {
				return nil, apperrors.BudgetOverflowError("Adding this item will exceed the income", 50)
			},
		}
		r := setupPlanItemRouter(NewPlanItemHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/plan-items",
			`{"plan_id":42,"category":"food","amount":99999}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "BUDGET_OVERFLOW")
		errObj := result["error"].(map[string]interface{})
		if errObj["message"] != "Adding this item will exceed the income by (50)" {
			t.Errorf("unexpected overflow message: %v", errObj["message"])
		}
	})

	t.Run("returns 403 on foreign plan", func(t *testing.T) {
		svc := &mockPlanItemService{
			createPlanItemFn: func(uint, uint, string, string, int64) (*models.PlanItem, error) {
				return nil, apperrors.ErrPlanNotOwned
			},
		}
		r := setupPlanItemRouter(NewPlanItemHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/plan-items",
			`{"plan_id":42,"category":"food","amount":300}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupPlanItemRouter(NewPlanItemHandler(&mockPlanItemService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/plan-items", `{"plan_id":42,"amount":300}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPlanItemHandler_GetPlanItems(t *testing.T) {
	t.Run("returns 400 without plan_id", func(t *testing.T) {
		r := setupPlanItemRouter(NewPlanItemHandler(&mockPlanItemService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/plan-items", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 200 with items", func(t *testing.T) {
		svc := &mockPlanItemService{
			getPlanItemsFn: func(_, planID uint) ([]models.PlanItem, error) {
				return []models.PlanItem{{Base: models.Base{ID: 1}, PlanID: planID, Category: "food"}}, nil
			},
		}
		r := setupPlanItemRouter(NewPlanItemHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/plan-items?plan_id=42", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		items := result["plan_items"].([]interface{})
		if len(items) != 1 {
			t.Errorf("expected 1 item, got %d", len(items))
		}
	})
}

func TestPlanItemHandler_UpdatePlanItem(t *testing.T) {
	t.Run("passes nil for omitted fields", func(t *testing.T) {
		svc := &mockPlanItemService{
			updatePlanItemFn: func(_, _ uint, planID *uint, category, notes *string, amount *int64) (*models.PlanItem, error) {
				if planID != nil || category != nil || notes != nil {
					t.Error("expected nil for omitted fields")
				}
				if amount == nil || *amount != 500 {
					t.Errorf("expected amount 500, got %v", amount)
				}
				return &models.PlanItem{Base: models.Base{ID: 1}, Amount: 500}, nil
			},
		}
		r := setupPlanItemRouter(NewPlanItemHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/plan-items/1", `{"amount":500}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 on missing item", func(t *testing.T) {
		svc := &mockPlanItemService{
			updatePlanItemFn: func(uint, uint, *uint, *string, *string, *int64) (*models.PlanItem, error) {
				return nil, apperrors.ErrPlanItemNotFound
			},
		}
		r := setupPlanItemRouter(NewPlanItemHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/plan-items/999", `{"amount":500}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestPlanItemHandler_DeletePlanItem(t *testing.T) {
	r := setupPlanItemRouter(NewPlanItemHandler(&mockPlanItemService{}, &mockAuditService{}))

	rec := doRequest(r, "DELETE", "/plan-items/1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
