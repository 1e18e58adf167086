package models

// GoalType enumerates the fixed set of goal scoring kinds. The set is
// closed; unknown values degrade to GoalVerdictInvalidType at
// evaluation time instead of failing the request.
type GoalType string

const (
	// GoalTypeSaveAmount: an absolute amount of the plan's income must
	// remain unspent.
	GoalTypeSaveAmount GoalType = "save_amount"
	// GoalTypeSavePercent: a percentage of the plan's income must
	// remain unspent.
	GoalTypeSavePercent GoalType = "save_percent"
	// GoalTypeSaveAmountCategory: an absolute amount of one category's
	// allocation must remain unspent.
	GoalTypeSaveAmountCategory GoalType = "save_amount_category"
	// GoalTypeSavePercentCategory: a percentage of one category's
	// allocation must remain unspent.
	GoalTypeSavePercentCategory GoalType = "save_percent_category"
)

// IsCategoryScoped reports whether the goal type is evaluated against a
// single category's allocation rather than the whole plan.
func (t GoalType) IsCategoryScoped() bool {
	return t == GoalTypeSaveAmountCategory || t == GoalTypeSavePercentCategory
}

// GoalVerdict is the outcome of evaluating a goal against a plan's
// actual spending. The literal values are part of the API contract.
type GoalVerdict string

const (
	GoalVerdictPending         GoalVerdict = "Plan's month has not ended yet"
	GoalVerdictAchieved        GoalVerdict = "Goal Achieved"
	GoalVerdictNotAchieved     GoalVerdict = "Goal Not Achieved"
	GoalVerdictMissingCategory GoalVerdict = "No plan item with the given category, cannot achieve goal"
	GoalVerdictInvalidType     GoalVerdict = "Goal Type Not Valid"
)

// Goal is a savings target evaluated against a plan's actuals. Category
// is only meaningful for the *_category types and is deliberately not
// checked against PlanItem categories at write time; a dangling
// category surfaces as GoalVerdictMissingCategory during evaluation.
type Goal struct {
	Base
	UserID       uint     `gorm:"not null;index" json:"user_id"`
	Title        string   `gorm:"not null" json:"title"`
	Description  string   `json:"description"`
	TargetAmount int64    `json:"target_amount"`
	Category     string   `json:"category"`
	Type         GoalType `gorm:"not null" json:"type"`

	// Relationships
	Plans []Plan `gorm:"many2many:plan_goals" json:"plans,omitempty"`
}
