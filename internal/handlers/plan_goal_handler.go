package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"survivalist/internal/services"
)

// PlanGoalHandler serves goal evaluation: goals viewed through a plan,
// each carrying a verdict computed against the plan's actual spending.
type PlanGoalHandler struct {
	planGoalService services.PlanGoalServicer
}

// NewPlanGoalHandler creates a new PlanGoalHandler.
func NewPlanGoalHandler(planGoalService services.PlanGoalServicer) *PlanGoalHandler {
	return &PlanGoalHandler{planGoalService: planGoalService}
}

// ListGoals handles listing a plan's goals with verdicts.
// @Summary     Evaluate plan goals
// @Description Get all goals associated with a plan, each with its verdict
// @Tags        plan-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Plan ID"
// @Success     200 {object} map[string][]services.EvaluatedGoal "Evaluated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id}/goals [get]
func (h *PlanGoalHandler) ListGoals(c *gin.Context) {
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

	goals, err := h.planGoalService.ListGoals(userID, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetGoal handles evaluating one goal against a plan.
// @Summary     Evaluate one plan goal
// @Description Get a single goal associated with a plan, with its verdict
// @Tags        plan-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int true "Plan ID"
// @Param       goal_id path int true "Goal ID"
// @Success     200 {object} services.EvaluatedGoal "Evaluated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan or goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id}/goals/{goal_id} [get]
func (h *PlanGoalHandler) GetGoal(c *gin.Context) {
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

	goalID, err := parsePathID(c, "goal_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.planGoalService.GetGoal(userID, planID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}
