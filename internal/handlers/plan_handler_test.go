package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"survivalist/internal/models"
	"survivalist/internal/pagination"
	"survivalist/internal/services"
)

// --- mock plan service ---

type mockPlanService struct {
	createPlanFn   func(userID uint, title, notes string, income int64, month string, goalIDs []uint) (*models.Plan, error)
	getUserPlansFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Plan], error)
	getPlanByIDFn  func(userID, planID uint) (*models.Plan, error)
	updatePlanFn   func(userID, planID uint, title, notes *string, income *int64, month *string, goalIDs *[]uint) (*models.Plan, error)
	deletePlanFn   func(userID, planID uint) error
	setPlanGoalsFn func(userID, planID uint, goalIDs []uint) (*models.Plan, error)
}

func (m *mockPlanService) CreatePlan(userID uint, title, notes string, income int64, month string, goalIDs []uint) (*models.Plan, error) {
	if m.createPlanFn != nil {
		return m.createPlanFn(userID, title, notes, income, month, goalIDs)
	}
	return &models.Plan{}, nil
}

func (m *mockPlanService) GetUserPlans(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Plan], error) {
	if m.getUserPlansFn != nil {
		return m.getUserPlansFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Plan{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPlanService) GetPlanByID(userID, planID uint) (*models.Plan, error) {
	if m.getPlanByIDFn != nil {
		return m.getPlanByIDFn(userID, planID)
	}
	return &models.Plan{}, nil
}

func (m *mockPlanService) UpdatePlan(userID, planID uint, title, notes *string, income *int64, month *string, goalIDs *[]uint) (*models.Plan, error) {
	if m.updatePlanFn != nil {
		return m.updatePlanFn(userID, planID, title, notes, income, month, goalIDs)
	}
	return &models.Plan{}, nil
}

func (m *mockPlanService) DeletePlan(userID, planID uint) error {
	if m.deletePlanFn != nil {
		return m.deletePlanFn(userID, planID)
	}
	return nil
}

func (m *mockPlanService) SetPlanGoals(userID, planID uint, goalIDs []uint) (*models.Plan, error) {
	if m.setPlanGoalsFn != nil {
		return m.setPlanGoalsFn(userID, planID, goalIDs)
	}
	return &models.Plan{}, nil
}

var _ services.PlanServicer = (*mockPlanService)(nil)

func setupPlanRouter(handler *PlanHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/plans", handler.CreatePlan)
	auth.GET("/plans", handler.GetPlans)
	auth.GET("/plans/:id", handler.GetPlan)
	auth.PUT("/plans/:id", handler.UpdatePlan)
	auth.DELETE("/plans/:id", handler.DeletePlan)
	auth.PUT("/plans/:id/goals", handler.SetPlanGoals)
	return r
}

func TestPlanHandler_CreatePlan(t *testing.T) {
	t.Run("returns 201 with formatted month", func(t *testing.T) {
		svc := &mockPlanService{
			createPlanFn: func(_ uint, title, _ string, income int64, monthStr string, _ []uint) (*models.Plan, error) {
				if monthStr != "2025-01" {
					t.Errorf("expected month 2025-01, got %s", monthStr)
				}
				return &models.Plan{
					Base:   models.Base{ID: 1},
					Title:  title,
					Income: income,
					Month:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/plans",
			`{"title":"January","income":1000,"month":"2025-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		plan := result["plan"].(map[string]interface{})
		if plan["month"] != "2025-01" {
			t.Errorf("expected month rendered as 2025-01, got %v", plan["month"])
		}
	})

	t.Run("returns 400 on malformed month", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}, &mockAuditService{}))

		for _, bad := range []string{"2025-13", "2025", "2025-1", "January 2025"} {
			rec := doRequest(r, "POST", "/plans",
				`{"title":"Bad","income":1000,"month":"`+bad+`"}`)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("month %q: expected 400, got %d", bad, rec.Code)
			}
		}
	})

	t.Run("returns 400 on missing title", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/plans", `{"income":1000,"month":"2025-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPlanHandler_SetPlanGoals(t *testing.T) {
	t.Run("passes goal ids through", func(t *testing.T) {
		svc := &mockPlanService{
			setPlanGoalsFn: func(_, planID uint, goalIDs []uint) (*models.Plan, error) {
				if planID != 42 || len(goalIDs) != 2 {
					t.Errorf("expected plan 42 with 2 goals, got %d %v", planID, goalIDs)
				}
				return &models.Plan{Base: models.Base{ID: 42}}, nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/plans/42/goals", `{"goal_ids":[3,7]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 without goal_ids", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/plans/42/goals", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
