package services

import (
	"testing"
	"time"

	"survivalist/internal/models"
	"survivalist/internal/pagination"
	"survivalist/internal/testutil"
)

func TestCreatePlan(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)
		user := testutil.CreateTestUser(t, db)

		plan, err := svc.CreatePlan(user.ID, "January", "tight month", 1000, "2025-01", nil)
		testutil.AssertNoError(t, err)

		if plan.ID == 0 {
			t.Fatal("expected non-zero plan ID")
		}
		want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		if !plan.Month.Equal(want) {
			t.Errorf("expected month normalized to %v, got %v", want, plan.Month)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)
		user := testutil.CreateTestUser(t, db)

		for _, bad := range []string{"2025-13", "2025", "01-2025", "2025-1", "garbage"} {
			_, err := svc.CreatePlan(user.ID, "Bad", "", 1000, bad, nil)
			testutil.AssertAppError(t, err, "INVALID_MONTH")
		}
	})

	t.Run("with_goals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)
		user := testutil.CreateTestUser(t, db)

		g1 := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSaveAmount, 100, "")
		g2 := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSavePercent, 10, "")

		plan, err := svc.CreatePlan(user.ID, "January", "", 1000, "2025-01", []uint{g2.ID, g1.ID})
		testutil.AssertNoError(t, err)

		var rows []models.PlanGoal
		if err := db.Where("plan_id = ?", plan.ID).Order("position").Find(&rows).Error; err != nil {
			t.Fatalf("failed to load join rows: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 join rows, got %d", len(rows))
		}
		if rows[0].GoalID != g2.ID || rows[1].GoalID != g1.ID {
			t.Errorf("expected attachment order [%d %d], got [%d %d]", g2.ID, g1.ID, rows[0].GoalID, rows[1].GoalID)
		}
	})

	t.Run("foreign_goal_rolls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreignGoal := testutil.CreateTestGoal(t, db, other.ID, models.GoalTypeSaveAmount, 100, "")

		_, err := svc.CreatePlan(user.ID, "January", "", 1000, "2025-01", []uint{foreignGoal.ID})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

		var count int64
		db.Model(&models.Plan{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected plan create to roll back, found %d plans", count)
		}
	})
}

func TestGetUserPlans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPlanService(db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestPlan(t, db, user.ID, "2025-01", 1000)
	newest := testutil.CreateTestPlan(t, db, user.ID, "2025-03", 1000)
	testutil.CreateTestPlan(t, db, other.ID, "2025-01", 1000)

	result, err := svc.GetUserPlans(user.ID, pagination.PageRequest{Page: 1, PageSize: 20})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Fatalf("expected 2 plans, got %d", result.TotalItems)
	}
	if result.Data[0].ID != newest.ID {
		t.Errorf("expected newest month first, got plan %d", result.Data[0].ID)
	}
}

func TestUpdatePlan(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)
		user := testutil.CreateTestUser(t, db)
		plan := testutil.CreateTestPlan(t, db, user.ID, "2025-01", 1000)

		income := int64(2000)
		monthStr := "2025-02"
		updated, err := svc.UpdatePlan(user.ID, plan.ID, nil, nil, &income, &monthStr, nil)
		testutil.AssertNoError(t, err)

		if updated.Income != 2000 {
			t.Errorf("expected income 2000, got %d", updated.Income)
		}
		want := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		if !updated.Month.Equal(want) {
			t.Errorf("expected month %v, got %v", want, updated.Month)
		}
	})

	t.Run("nil_goal_ids_leaves_association", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)
		user := testutil.CreateTestUser(t, db)
		plan := testutil.CreateTestPlan(t, db, user.ID, "2025-01", 1000)
		goal := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSaveAmount, 100, "")
		testutil.AttachGoalToPlan(t, db, plan.ID, goal.ID, 0)

		title := "renamed"
		updated, err := svc.UpdatePlan(user.ID, plan.ID, &title, nil, nil, nil, nil)
		testutil.AssertNoError(t, err)

		if len(updated.Goals) != 1 {
			t.Errorf("expected goal association untouched, got %d goals", len(updated.Goals))
		}
	})

	t.Run("empty_goal_ids_clears_association", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPlanService(db)
		user := testutil.CreateTestUser(t, db)
		plan := testutil.CreateTestPlan(t, db, user.ID, "2025-01", 1000)
		goal := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSaveAmount, 100, "")
		testutil.AttachGoalToPlan(t, db, plan.ID, goal.ID, 0)

		empty := []uint{}
		updated, err := svc.UpdatePlan(user.ID, plan.ID, nil, nil, nil, nil, &empty)
		testutil.AssertNoError(t, err)

		if len(updated.Goals) != 0 {
			t.Errorf("expected association cleared, got %d goals", len(updated.Goals))
		}

		// The goal itself survives.
		var count int64
		db.Model(&models.Goal{}).Where("id = ?", goal.ID).Count(&count)
		if count != 1 {
			t.Error("expected goal to survive association removal")
		}
	})
}

func TestDeletePlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPlanService(db)
	user := testutil.CreateTestUser(t, db)

	plan := testutil.CreateTestPlan(t, db, user.ID, "2025-01", 1000)
	testutil.CreateTestPlanItem(t, db, plan.ID, "food", 300)
	goal := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSaveAmount, 100, "")
	testutil.AttachGoalToPlan(t, db, plan.ID, goal.ID, 0)

	err := svc.DeletePlan(user.ID, plan.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetPlanByID(user.ID, plan.ID)
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")

	var joinCount int64
	db.Model(&models.PlanGoal{}).Where("plan_id = ?", plan.ID).Count(&joinCount)
	if joinCount != 0 {
		t.Errorf("expected join rows removed, got %d", joinCount)
	}

	var goalCount int64
	db.Model(&models.Goal{}).Where("id = ?", goal.ID).Count(&goalCount)
	if goalCount != 1 {
		t.Error("expected goal to survive plan deletion")
	}
}

func TestSetPlanGoals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPlanService(db)
	user := testutil.CreateTestUser(t, db)

	plan := testutil.CreateTestPlan(t, db, user.ID, "2025-01", 1000)
	g1 := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSaveAmount, 100, "")
	g2 := testutil.CreateTestGoal(t, db, user.ID, models.GoalTypeSaveAmount, 200, "")
	testutil.AttachGoalToPlan(t, db, plan.ID, g1.ID, 0)

	updated, err := svc.SetPlanGoals(user.ID, plan.ID, []uint{g2.ID})
	testutil.AssertNoError(t, err)

	if len(updated.Goals) != 1 || updated.Goals[0].ID != g2.ID {
		t.Errorf("expected association replaced with goal %d, got %+v", g2.ID, updated.Goals)
	}
}
