package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/month"
)

// planGoalService evaluates a plan's associated goals against the
// plan's actual spending. Evaluation is stateless per request: the
// only cache is a memo of expense totals scoped to a single call,
// since expenses can change between requests.
type planGoalService struct {
	db       *gorm.DB
	expenses ExpenseSummer
	now      func() time.Time
}

// NewPlanGoalService creates a new PlanGoalServicer.
func NewPlanGoalService(db *gorm.DB, expenses ExpenseSummer) PlanGoalServicer {
	return &planGoalService{db: db, expenses: expenses, now: time.Now}
}

// ListGoals evaluates every goal associated with the plan, in
// association order. The plan-wide expense total is computed at most
// once, and each distinct category total at most once, no matter how
// many goals share them.
func (s *planGoalService) ListGoals(userID, planID uint) ([]EvaluatedGoal, error) {
	plan, err := s.loadPlan(userID, planID)
	if err != nil {
		return nil, err
	}

	var goals []models.Goal
	err = s.db.Joins("JOIN plan_goals ON plan_goals.goal_id = goals.id").
		Where("plan_goals.plan_id = ?", plan.ID).
		Order("plan_goals.position").
		Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	memo := s.newMemo(userID, plan)
	results := make([]EvaluatedGoal, 0, len(goals))
	for i := range goals {
		verdict, err := s.verdictFor(&goals[i], plan, memo)
		if err != nil {
			return nil, err
		}
		view, err := s.represent(&goals[i], verdict)
		if err != nil {
			return nil, err
		}
		results = append(results, *view)
	}
	return results, nil
}

// GetGoal evaluates a single goal associated with the plan. Both "no
// such plan" and "goal not associated with that plan" surface as the
// same not-found result. Only the one aggregate the goal needs is
// computed.
func (s *planGoalService) GetGoal(userID, planID, goalID uint) (*EvaluatedGoal, error) {
	plan, err := s.loadPlan(userID, planID)
	if err != nil {
		return nil, err
	}

	var goal models.Goal
	err = s.db.Joins("JOIN plan_goals ON plan_goals.goal_id = goals.id").
		Where("plan_goals.plan_id = ? AND goals.id = ?", plan.ID, goalID).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	verdict, err := s.verdictFor(&goal, plan, s.newMemo(userID, plan))
	if err != nil {
		return nil, err
	}
	return s.represent(&goal, verdict)
}

func (s *planGoalService) loadPlan(userID, planID uint) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.Preload("Items").Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// verdictFor resolves the aggregate a goal needs and runs the
// evaluator. Goals that short-circuit (pending month, missing category
// item, unknown type) never trigger aggregation.
func (s *planGoalService) verdictFor(goal *models.Goal, plan *models.Plan, memo *expenseMemo) (models.GoalVerdict, error) {
	today := s.now()
	if !month.HasEnded(plan.Month, today) {
		return models.GoalVerdictPending, nil
	}

	var item *models.PlanItem
	var spent int64
	switch goal.Type {
	case models.GoalTypeSaveAmount, models.GoalTypeSavePercent:
		total, err := memo.planTotal()
		if err != nil {
			return "", err
		}
		spent = total
	case models.GoalTypeSaveAmountCategory, models.GoalTypeSavePercentCategory:
		item = matchPlanItem(plan.Items, goal.Category)
		if item == nil {
			return models.GoalVerdictMissingCategory, nil
		}
		total, err := memo.categoryTotal(goal.Category)
		if err != nil {
			return "", err
		}
		spent = total
	default:
		return models.GoalVerdictInvalidType, nil
	}

	return evaluateGoal(goal, plan, item, spent, today), nil
}

// represent builds the caller-facing goal view with its plan ids.
func (s *planGoalService) represent(goal *models.Goal, verdict models.GoalVerdict) (*EvaluatedGoal, error) {
	var planIDs []uint
	err := s.db.Model(&models.PlanGoal{}).
		Where("goal_id = ?", goal.ID).
		Order("plan_id").
		Pluck("plan_id", &planIDs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &EvaluatedGoal{
		ID:           goal.ID,
		Title:        goal.Title,
		Description:  goal.Description,
		TargetAmount: goal.TargetAmount,
		Category:     goal.Category,
		Type:         goal.Type,
		PlanIDs:      planIDs,
		Verdict:      verdict,
	}, nil
}

// expenseMemo caches expense totals for one plan month within a single
// request. It must never outlive the request that created it.
type expenseMemo struct {
	summer ExpenseSummer
	userID uint
	year   int
	month  time.Month

	total      *int64
	byCategory map[string]int64
}

func (s *planGoalService) newMemo(userID uint, plan *models.Plan) *expenseMemo {
	return &expenseMemo{
		summer:     s.expenses,
		userID:     userID,
		year:       plan.Month.Year(),
		month:      plan.Month.Month(),
		byCategory: make(map[string]int64),
	}
}

// planTotal returns the plan-wide monthly expense total, aggregating at
// most once.
func (m *expenseMemo) planTotal() (int64, error) {
	if m.total != nil {
		return *m.total, nil
	}
	total, err := m.summer.SumForMonth(m.userID, m.year, m.month, nil)
	if err != nil {
		return 0, err
	}
	m.total = &total
	return total, nil
}

// categoryTotal returns the monthly expense total for one category,
// aggregating at most once per distinct category.
func (m *expenseMemo) categoryTotal(category string) (int64, error) {
	if total, ok := m.byCategory[category]; ok {
		return total, nil
	}
	total, err := m.summer.SumForMonth(m.userID, m.year, m.month, &category)
	if err != nil {
		return 0, err
	}
	m.byCategory[category] = total
	return total, nil
}
