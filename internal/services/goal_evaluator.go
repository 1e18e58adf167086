package services

import (
	"time"

	"survivalist/internal/models"
	"survivalist/internal/month"
)

// evaluateGoal decides a goal's verdict against its plan. Verdicts are
// mutually exclusive and checked in priority order:
//
//  1. Pending while the plan's month has not fully elapsed (current or
//     future month), before any amount math.
//  2. Missing-category for category-scoped goals whose category has no
//     PlanItem under the plan (item == nil).
//  3. Achieved / not achieved per goal type. The left-hand side is
//     integer arithmetic (income or allocation minus spent); the
//     percent targets compute the right-hand side in floating point.
//     Ties achieve.
//  4. Invalid-type as the variant-exhaustion default. The enumeration
//     is closed, so this should be unreachable, but a bad row must
//     degrade to a verdict rather than an error.
//
// spent must already be scoped to the goal: the plan-wide monthly total
// for save_amount/save_percent, the category monthly total for the
// *_category types.
func evaluateGoal(goal *models.Goal, plan *models.Plan, item *models.PlanItem, spent int64, today time.Time) models.GoalVerdict {
	if !month.HasEnded(plan.Month, today) {
		return models.GoalVerdictPending
	}

	if goal.Type.IsCategoryScoped() && item == nil {
		return models.GoalVerdictMissingCategory
	}

	switch goal.Type {
	case models.GoalTypeSaveAmount:
		return achievedVerdict(plan.Income-spent >= goal.TargetAmount)
	case models.GoalTypeSavePercent:
		required := float64(goal.TargetAmount) / 100 * float64(plan.Income)
		return achievedVerdict(float64(plan.Income-spent) >= required)
	case models.GoalTypeSaveAmountCategory:
		return achievedVerdict(item.Amount-spent >= goal.TargetAmount)
	case models.GoalTypeSavePercentCategory:
		required := float64(goal.TargetAmount) / 100 * float64(item.Amount)
		return achievedVerdict(float64(item.Amount-spent) >= required)
	default:
		return models.GoalVerdictInvalidType
	}
}

func achievedVerdict(achieved bool) models.GoalVerdict {
	if achieved {
		return models.GoalVerdictAchieved
	}
	return models.GoalVerdictNotAchieved
}

// matchPlanItem returns the plan item whose category matches, or nil.
func matchPlanItem(items []models.PlanItem, category string) *models.PlanItem {
	for i := range items {
		if items[i].Category == category {
			return &items[i]
		}
	}
	return nil
}
