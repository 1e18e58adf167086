package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/services"
)

// PlanItemHandler handles plan item requests.
type PlanItemHandler struct {
	planItemService services.PlanItemServicer
	auditService    services.AuditServicer
}

// NewPlanItemHandler creates a new PlanItemHandler.
func NewPlanItemHandler(planItemService services.PlanItemServicer, auditService services.AuditServicer) *PlanItemHandler {
	return &PlanItemHandler{planItemService: planItemService, auditService: auditService}
}

// CreatePlanItemRequest represents the request payload for creating a plan item.
type CreatePlanItemRequest struct {
	PlanID   uint   `json:"plan_id" binding:"required"`
	Category string `json:"category" binding:"required,min=1,max=255"`
	Notes    string `json:"notes"`
	Amount   int64  `json:"amount" binding:"min=0"`
}

// UpdatePlanItemRequest represents the request payload for updating a plan item.
type UpdatePlanItemRequest struct {
	PlanID   *uint   `json:"plan_id"`
	Category *string `json:"category" binding:"omitempty,min=1,max=255"`
	Notes    *string `json:"notes"`
	Amount   *int64  `json:"amount" binding:"omitempty,min=0"`
}

// CreatePlanItem handles adding an allocation to a plan.
// @Summary     Create a plan item
// @Description Add a category allocation to a plan; fails if it would exceed the plan income
// @Tags        plan-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePlanItemRequest true "Plan item details"
// @Success     201 {object} models.PlanItem "Plan item created"
// @Failure     400 {object} ErrorResponse "Invalid input or budget overflow"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan not owned"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plan-items [post]
func (h *PlanItemHandler) CreatePlanItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePlanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.planItemService.CreatePlanItem(userID, req.PlanID, req.Category, req.Notes, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PLAN_ITEM", "plan_item", item.ID, c.ClientIP(),
		map[string]interface{}{"plan_id": req.PlanID, "category": req.Category, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"plan_item": item})
}

// GetPlanItems handles listing a plan's items.
// @Summary     Get plan items
// @Description Get all items of one plan
// @Tags        plan-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       plan_id query int true "Plan ID"
// @Success     200 {object} map[string][]models.PlanItem "Plan items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plan-items [get]
func (h *PlanItemHandler) GetPlanItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parseQueryID(c, "plan_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	items, err := h.planItemService.GetPlanItems(userID, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan_items": items})
}

// GetPlanItem handles retrieving a specific plan item.
// @Summary     Get plan item by ID
// @Description Get a single plan item
// @Tags        plan-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan item ID"
// @Success     200 {object} models.PlanItem "Plan item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plan-items/{id} [get]
func (h *PlanItemHandler) GetPlanItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.planItemService.GetPlanItemByID(userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan_item": item})
}

// UpdatePlanItem handles updating a plan item, including moving it to
// another plan.
// @Summary     Update plan item
// @Description Update a plan item; amount and plan changes are revalidated against the budget
// @Tags        plan-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Plan item ID"
// @Param       request body UpdatePlanItemRequest true "Fields to update"
// @Success     200 {object} models.PlanItem "Updated plan item"
// @Failure     400 {object} ErrorResponse "Invalid input or budget overflow"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Destination plan not owned"
// @Failure     404 {object} ErrorResponse "Plan item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plan-items/{id} [put]
func (h *PlanItemHandler) UpdatePlanItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePlanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.planItemService.UpdatePlanItem(userID, itemID, req.PlanID, req.Category, req.Notes, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PLAN_ITEM", "plan_item", item.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"plan_item": item})
}

// DeletePlanItem handles deleting a plan item.
// @Summary     Delete plan item
// @Description Remove an allocation from a plan
// @Tags        plan-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan item ID"
// @Success     200 {object} map[string]string "Plan item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plan-items/{id} [delete]
func (h *PlanItemHandler) DeletePlanItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.planItemService.DeletePlanItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PLAN_ITEM", "plan_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Plan item deleted successfully"})
}
