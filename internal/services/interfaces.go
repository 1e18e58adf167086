package services

import (
	"time"

	"survivalist/internal/models"
	"survivalist/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

// PlanServicer defines the contract for survival-plan business logic.
// Months travel as "YYYY-MM" strings and are stored normalized to the
// first day of the month.
type PlanServicer interface {
	CreatePlan(userID uint, title, notes string, income int64, month string, goalIDs []uint) (*models.Plan, error)
	GetUserPlans(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Plan], error)
	GetPlanByID(userID, planID uint) (*models.Plan, error)
	UpdatePlan(userID, planID uint, title, notes *string, income *int64, month *string, goalIDs *[]uint) (*models.Plan, error)
	DeletePlan(userID, planID uint) error
	SetPlanGoals(userID, planID uint, goalIDs []uint) (*models.Plan, error)
}

// PlanItemServicer defines the contract for plan item business logic.
// Every write is gated by the plan budget check: the sum of a plan's
// item amounts never exceeds the plan's income.
type PlanItemServicer interface {
	CreatePlanItem(userID, planID uint, category, notes string, amount int64) (*models.PlanItem, error)
	GetPlanItems(userID, planID uint) ([]models.PlanItem, error)
	GetPlanItemByID(userID, itemID uint) (*models.PlanItem, error)
	UpdatePlanItem(userID, itemID uint, planID *uint, category, notes *string, amount *int64) (*models.PlanItem, error)
	DeletePlanItem(userID, itemID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// ExpenseServicer defines the contract for expense business logic.
type ExpenseServicer interface {
	ExpenseSummer
	CreateExpense(userID uint, title, category, notes string, amount int64, date *time.Time) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, title, category, notes *string, amount *int64, date *time.Time) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
}

// ExpenseSummer aggregates expense amounts over date ranges. The goal
// evaluation and stats services depend on this narrow interface rather
// than the full expense service.
type ExpenseSummer interface {
	// SumForMonth returns the total expense amount for the user in the
	// given calendar month, optionally restricted to one category.
	// Zero when nothing matches.
	SumForMonth(userID uint, year int, m time.Month, category *string) (int64, error)
	// SumForRange is SumForMonth over an arbitrary [from, to) window.
	SumForRange(userID uint, from, to time.Time, category *string) (int64, error)
}

// GoalServicer defines the contract for goal CRUD and the goal side of
// the plan association.
type GoalServicer interface {
	CreateGoal(userID uint, title, description string, targetAmount int64, category string, goalType models.GoalType, planIDs []uint) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, title, description, category *string, targetAmount *int64, goalType *models.GoalType, planIDs *[]uint) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
}

// EvaluatedGoal is a goal representation merged with its verdict for
// one plan.
type EvaluatedGoal struct {
	ID           uint               `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	TargetAmount int64              `json:"target_amount"`
	Category     string             `json:"category,omitempty"`
	Type         models.GoalType    `json:"type"`
	PlanIDs      []uint             `json:"plan_ids"`
	Verdict      models.GoalVerdict `json:"verdict"`
}

// PlanGoalServicer evaluates a plan's associated goals against the
// plan's actual spending.
type PlanGoalServicer interface {
	ListGoals(userID, planID uint) ([]EvaluatedGoal, error)
	GetGoal(userID, planID, goalID uint) (*EvaluatedGoal, error)
}

// MonthlyStats is the income/expense rollup for one plan month.
type MonthlyStats struct {
	Month        string `json:"month"`
	Income       int64  `json:"income"`
	TotalExpense int64  `json:"total_expense"`
	NetSavings   int64  `json:"net_savings"`
}

// MonthBreakdown is one month's slice of a yearly rollup.
type MonthBreakdown struct {
	Income       int64 `json:"income"`
	TotalExpense int64 `json:"total_expense"`
	NetSavings   int64 `json:"net_savings"`
}

// YearlyStats is the twelve-month rollup across all plans in a window.
type YearlyStats struct {
	Range            string                    `json:"range"`
	TotalIncome      int64                     `json:"total_income"`
	TotalExpense     int64                     `json:"total_expense"`
	NetSavings       int64                     `json:"net_savings"`
	UnplannedExpense int64                     `json:"expenses_not_covered_by_any_plan"`
	PlanCount        int                       `json:"number_of_plans"`
	MonthlyBreakdown map[string]MonthBreakdown `json:"monthly_breakdown"`
}

// MonthlyCategoryStats is the allocation/expense rollup for one
// category in one plan month.
type MonthlyCategoryStats struct {
	Month        string `json:"month"`
	Category     string `json:"category"`
	Amount       int64  `json:"amount"`
	TotalExpense int64  `json:"total_expense"`
	NetSavings   int64  `json:"net_savings"`
}

// CategoryMonthBreakdown is one month's slice of a yearly category rollup.
type CategoryMonthBreakdown struct {
	Amount       int64 `json:"amount"`
	TotalExpense int64 `json:"total_expense"`
	NetSavings   int64 `json:"net_savings"`
}

// YearlyCategoryStats is the twelve-month rollup for one category.
type YearlyCategoryStats struct {
	Range            string                            `json:"range"`
	Category         string                            `json:"category"`
	TotalAmount      int64                             `json:"total_amount"`
	TotalExpense     int64                             `json:"total_expense"`
	NetSavings       int64                             `json:"net_savings"`
	UnplannedExpense int64                             `json:"expenses_not_covered_by_any_plan"`
	PlanCount        int                               `json:"number_of_plans"`
	MonthlyBreakdown map[string]CategoryMonthBreakdown `json:"monthly_breakdown"`
}

// StatsServicer defines the contract for expense rollups. Empty month
// strings and nil years mean "the current one".
type StatsServicer interface {
	MonthlyStats(userID uint, month string) (*MonthlyStats, error)
	YearlyStats(userID uint, year *int) (*YearlyStats, error)
	MonthlyCategoryStats(userID uint, category, month string) (*MonthlyCategoryStats, error)
	YearlyCategoryStats(userID uint, category string, year *int) (*YearlyCategoryStats, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
