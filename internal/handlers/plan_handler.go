package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/month"
	"survivalist/internal/pagination"
	"survivalist/internal/services"
)

// PlanHandler handles survival-plan requests.
type PlanHandler struct {
	planService  services.PlanServicer
	auditService services.AuditServicer
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService services.PlanServicer, auditService services.AuditServicer) *PlanHandler {
	return &PlanHandler{planService: planService, auditService: auditService}
}

// CreatePlanRequest represents the request payload for creating a plan.
type CreatePlanRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Notes   string `json:"notes"`
	Income  int64  `json:"income" binding:"min=0"`
	Month   string `json:"month" binding:"required,plan_month"`
	GoalIDs []uint `json:"goal_ids"`
}

// UpdatePlanRequest represents the request payload for updating a plan.
type UpdatePlanRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=255"`
	Notes   *string `json:"notes"`
	Income  *int64  `json:"income" binding:"omitempty,min=0"`
	Month   *string `json:"month" binding:"omitempty,plan_month"`
	GoalIDs *[]uint `json:"goal_ids"`
}

// SetPlanGoalsRequest represents the request payload for replacing a
// plan's goal association.
type SetPlanGoalsRequest struct {
	GoalIDs []uint `json:"goal_ids" binding:"required"`
}

// PlanResponse is a plan with its month rendered as "YYYY-MM".
type PlanResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Notes     string            `json:"notes"`
	Income    int64             `json:"income"`
	Month     string            `json:"month"`
	Items     []models.PlanItem `json:"items"`
	GoalIDs   []uint            `json:"goal_ids"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newPlanResponse(plan *models.Plan) PlanResponse {
	goalIDs := make([]uint, 0, len(plan.Goals))
	for _, g := range plan.Goals {
		goalIDs = append(goalIDs, g.ID)
	}
	items := plan.Items
	if items == nil {
		items = []models.PlanItem{}
	}
	return PlanResponse{
		ID:        plan.ID,
		Title:     plan.Title,
		Notes:     plan.Notes,
		Income:    plan.Income,
		Month:     month.Format(plan.Month),
		Items:     items,
		GoalIDs:   goalIDs,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

// CreatePlan handles the creation of a new plan.
// @Summary     Create a plan
// @Description Create a survival plan for one month
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePlanRequest true "Plan details"
// @Success     201 {object} PlanResponse "Plan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.planService.CreatePlan(userID, req.Title, req.Notes, req.Income, req.Month, req.GoalIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PLAN", "plan", plan.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title, "income": req.Income, "month": req.Month})

	c.JSON(http.StatusCreated, gin.H{"plan": newPlanResponse(plan)})
}

// GetPlans handles listing plans for the authenticated user.
// @Summary     Get plans
// @Description Get a paginated list of the authenticated user's plans
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[PlanResponse] "Paginated plans"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans [get]
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.planService.GetUserPlans(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plans := make([]PlanResponse, 0, len(result.Data))
	for i := range result.Data {
		plans = append(plans, newPlanResponse(&result.Data[i]))
	}
	response := pagination.NewPageResponse(plans, result.Page, result.PageSize, result.TotalItems)

	c.JSON(http.StatusOK, response)
}

// GetPlan handles retrieving a specific plan.
// @Summary     Get plan by ID
// @Description Get a plan with its items and goal associations
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan ID"
// @Success     200 {object} PlanResponse "Plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.planService.GetPlanByID(userID, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": newPlanResponse(plan)})
}

// UpdatePlan handles updating an existing plan.
// @Summary     Update plan
// @Description Update a plan's fields and optionally its goal association
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Plan ID"
// @Param       request body UpdatePlanRequest true "Fields to update"
// @Success     200 {object} PlanResponse "Updated plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.planService.UpdatePlan(userID, planID, req.Title, req.Notes, req.Income, req.Month, req.GoalIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PLAN", "plan", plan.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"plan": newPlanResponse(plan)})
}

// DeletePlan handles deleting a plan.
// @Summary     Delete plan
// @Description Delete a plan and its items; goals and expenses are untouched
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan ID"
// @Success     200 {object} map[string]string "Plan deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.planService.DeletePlan(userID, planID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PLAN", "plan", planID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

// SetPlanGoals handles replacing a plan's goal association.
// @Summary     Set plan goals
// @Description Replace the set of goals associated with a plan, in order
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Plan ID"
// @Param       request body SetPlanGoalsRequest true "Goal IDs"
// @Success     200 {object} PlanResponse "Updated plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan or goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id}/goals [put]
func (h *PlanHandler) SetPlanGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetPlanGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.planService.SetPlanGoals(userID, planID, req.GoalIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_PLAN_GOALS", "plan", planID, c.ClientIP(),
		map[string]interface{}{"goal_ids": req.GoalIDs})

	c.JSON(http.StatusOK, gin.H{"plan": newPlanResponse(plan)})
}
