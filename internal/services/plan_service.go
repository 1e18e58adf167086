package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/month"
	"survivalist/internal/pagination"
)

// planService handles survival-plan business logic.
type planService struct {
	db *gorm.DB
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB) PlanServicer {
	return &planService{db: db}
}

// CreatePlan creates a plan for the given "YYYY-MM" month and attaches
// the given goals, in order.
func (s *planService) CreatePlan(userID uint, title, notes string, income int64, monthStr string, goalIDs []uint) (*models.Plan, error) {
	monthDate, err := month.Parse(monthStr)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		UserID: userID,
		Title:  title,
		Notes:  notes,
		Income: income,
		Month:  monthDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.attachGoals(tx, plan, goalIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlanByID(userID, plan.ID)
}

// GetUserPlans returns a paginated list of the user's plans, newest
// month first.
func (s *planService) GetUserPlans(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Plan], error) {
	page.Defaults()

	base := s.db.Model(&models.Plan{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var plans []models.Plan
	if err := base.Preload("Items").Order("month DESC, id").Scopes(pagination.Paginate(page)).Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(plans, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPlanByID returns a plan with its items and associated goals if it
// belongs to the user.
func (s *planService) GetPlanByID(userID, planID uint) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.Preload("Items").Preload("Goals").
		Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// UpdatePlan updates a plan's fields. A nil goalIDs leaves the goal
// association untouched; a non-nil one replaces it.
func (s *planService) UpdatePlan(userID, planID uint, title, notes *string, income *int64, monthStr *string, goalIDs *[]uint) (*models.Plan, error) {
	plan, err := s.GetPlanByID(userID, planID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if income != nil {
		updates["income"] = *income
	}
	if monthStr != nil {
		monthDate, err := month.Parse(*monthStr)
		if err != nil {
			return nil, err
		}
		updates["month"] = monthDate
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(plan).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if goalIDs != nil {
			return s.replaceGoals(tx, plan, *goalIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlanByID(userID, planID)
}

// DeletePlan deletes a plan, its items, and its goal associations.
// Goals and expenses themselves are untouched.
func (s *planService) DeletePlan(userID, planID uint) error {
	plan, err := s.GetPlanByID(userID, planID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanGoal{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// SetPlanGoals replaces the plan's goal association with the given
// goals, in the given order.
func (s *planService) SetPlanGoals(userID, planID uint, goalIDs []uint) (*models.Plan, error) {
	plan, err := s.GetPlanByID(userID, planID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.replaceGoals(tx, plan, goalIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlanByID(userID, planID)
}

// attachGoals appends join rows for the given goals one at a time so
// attachment order is preserved. All goals must belong to the user.
func (s *planService) attachGoals(tx *gorm.DB, plan *models.Plan, goalIDs []uint) error {
	for i, goalID := range goalIDs {
		var goal models.Goal
		if err := tx.Where("id = ? AND user_id = ?", goalID, plan.UserID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(&models.PlanGoal{PlanID: plan.ID, GoalID: goal.ID, Position: i}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func (s *planService) replaceGoals(tx *gorm.DB, plan *models.Plan, goalIDs []uint) error {
	if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanGoal{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.attachGoals(tx, plan, goalIDs)
}
