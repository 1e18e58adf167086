package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"survivalist/internal/models"
	"survivalist/internal/month"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPlan creates a plan for the given "YYYY-MM" month with the
// given income (in cents).
func CreateTestPlan(t *testing.T, db *gorm.DB, userID uint, monthStr string, income int64) *models.Plan {
	t.Helper()

	monthDate, err := month.Parse(monthStr)
	if err != nil {
		t.Fatalf("invalid fixture month %q: %v", monthStr, err)
	}

	plan := &models.Plan{
		UserID: userID,
		Title:  fmt.Sprintf("Test Plan %d", nextID()),
		Income: income,
		Month:  monthDate,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

// CreateTestPlanItem creates a category allocation under the given plan.
func CreateTestPlanItem(t *testing.T, db *gorm.DB, planID uint, category string, amount int64) *models.PlanItem {
	t.Helper()

	item := &models.PlanItem{
		PlanID:   planID,
		Category: category,
		Amount:   amount,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test plan item: %v", err)
	}
	return item
}

// CreateTestExpense creates an expense of the given category and amount
// (in cents) on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, category string, amount int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Expense %d", nextID()),
		Category: category,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGoal creates a goal of the given type. Category may be
// empty for plan-wide goal types.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, goalType models.GoalType, targetAmount int64, category string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Title:        fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		Category:     category,
		Type:         goalType,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// AttachGoalToPlan inserts a plan_goals join row at the given position.
func AttachGoalToPlan(t *testing.T, db *gorm.DB, planID, goalID uint, position int) {
	t.Helper()

	row := &models.PlanGoal{
		PlanID:   planID,
		GoalID:   goalID,
		Position: position,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to attach goal %d to plan %d: %v", goalID, planID, err)
	}
}
