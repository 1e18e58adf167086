package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
	"survivalist/internal/pagination"
)

// goalService handles goal CRUD and the goal side of the plan
// association. A goal's category is deliberately not checked against
// any plan's items here; a dangling category only surfaces at
// evaluation time.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a goal and attaches it to the given plans.
func (s *goalService) CreateGoal(userID uint, title, description string, targetAmount int64, category string, goalType models.GoalType, planIDs []uint) (*models.Goal, error) {
	goal := &models.Goal{
		UserID:       userID,
		Title:        title,
		Description:  description,
		TargetAmount: targetAmount,
		Category:     category,
		Type:         goalType,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.attachPlans(tx, goal, planIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goal.ID)
}

// GetUserGoals returns a paginated list of the user's goals.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Order("id").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal with its associated plans if it belongs to
// the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.Preload("Plans").Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal updates a goal's fields. A nil planIDs leaves the plan
// association untouched; a non-nil one replaces it.
func (s *goalService) UpdateGoal(userID, goalID uint, title, description, category *string, targetAmount *int64, goalType *models.GoalType, planIDs *[]uint) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if category != nil {
		updates["category"] = *category
	}
	if targetAmount != nil {
		updates["target_amount"] = *targetAmount
	}
	if goalType != nil {
		updates["type"] = *goalType
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(goal).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if planIDs != nil {
			if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.PlanGoal{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return s.attachPlans(tx, goal, *planIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goalID)
}

// DeleteGoal removes a goal and its plan associations.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.PlanGoal{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// attachPlans appends join rows for the given plans. Attaching from the
// goal side places the goal after the plan's existing goals.
func (s *goalService) attachPlans(tx *gorm.DB, goal *models.Goal, planIDs []uint) error {
	for _, planID := range planIDs {
		var plan models.Plan
		if err := tx.Where("id = ? AND user_id = ?", planID, goal.UserID).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPlanNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var maxPos int
		row := tx.Model(&models.PlanGoal{}).Where("plan_id = ?", plan.ID).Select("COALESCE(MAX(position), -1)")
		if err := row.Scan(&maxPos).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Create(&models.PlanGoal{PlanID: plan.ID, GoalID: goal.ID, Position: maxPos + 1}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
