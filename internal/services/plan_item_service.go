package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/models"
)

// planItemService handles plan item business logic. Every write runs
// the budget check first; the mutation is applied only when the check
// passes.
type planItemService struct {
	db *gorm.DB
}

// NewPlanItemService creates a new PlanItemServicer.
func NewPlanItemService(db *gorm.DB) PlanItemServicer {
	return &planItemService{db: db}
}

// CreatePlanItem adds a category allocation to a plan. The acting user
// must own the plan, and the new amount plus the plan's existing items
// must stay within the plan income.
func (s *planItemService) CreatePlanItem(userID, planID uint, category, notes string, amount int64) (*models.PlanItem, error) {
	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, apperrors.ErrPlanNotOwned
	}

	existing, err := s.itemAmounts(planID, 0)
	if err != nil {
		return nil, err
	}
	if err := checkBudget(budgetPhraseAdd, plan.Income, existing, amount); err != nil {
		return nil, err
	}

	item := &models.PlanItem{
		PlanID:   planID,
		Category: category,
		Notes:    notes,
		Amount:   amount,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// GetPlanItems returns all items of a plan owned by the user.
func (s *planItemService) GetPlanItems(userID, planID uint) ([]models.PlanItem, error) {
	var count int64
	if err := s.db.Model(&models.Plan{}).Where("id = ? AND user_id = ?", planID, userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrPlanNotFound
	}

	var items []models.PlanItem
	if err := s.db.Where("plan_id = ?", planID).Order("id").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// GetPlanItemByID returns a plan item if its plan belongs to the user.
func (s *planItemService) GetPlanItemByID(userID, itemID uint) (*models.PlanItem, error) {
	var item models.PlanItem
	err := s.db.Joins("JOIN plans ON plans.id = plan_items.plan_id").
		Where("plan_items.id = ? AND plans.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdatePlanItem edits a plan item. Changing neither the amount nor the
// owning plan short-circuits past the budget check, so a no-op edit
// always succeeds even when the plan has drifted over budget. Moving
// the item to another plan requires owning the destination plan and
// revalidates against the destination's items.
func (s *planItemService) UpdatePlanItem(userID, itemID uint, planID *uint, category, notes *string, amount *int64) (*models.PlanItem, error) {
	item, err := s.GetPlanItemByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	targetPlanID := item.PlanID
	if planID != nil {
		targetPlanID = *planID
	}
	newAmount := item.Amount
	if amount != nil {
		newAmount = *amount
	}

	switch {
	case targetPlanID == item.PlanID && newAmount == item.Amount:
		// No-op with respect to the budget: skip the check.
	case targetPlanID != item.PlanID:
		dest, err := s.loadPlan(targetPlanID)
		if err != nil {
			return nil, err
		}
		if dest.UserID != userID {
			return nil, apperrors.ErrPlanNotOwned
		}
		// The item is new to the destination plan, so every existing
		// destination item counts.
		existing, err := s.itemAmounts(targetPlanID, 0)
		if err != nil {
			return nil, err
		}
		if err := checkBudget(budgetPhraseMove, dest.Income, existing, newAmount); err != nil {
			return nil, err
		}
	default:
		plan, err := s.loadPlan(item.PlanID)
		if err != nil {
			return nil, err
		}
		existing, err := s.itemAmounts(item.PlanID, item.ID)
		if err != nil {
			return nil, err
		}
		if err := checkBudget(budgetPhraseEdit, plan.Income, existing, newAmount); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if planID != nil {
		updates["plan_id"] = *planID
	}
	if category != nil {
		updates["category"] = *category
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if amount != nil {
		updates["amount"] = *amount
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return item, nil
}

// DeletePlanItem removes a plan item.
func (s *planItemService) DeletePlanItem(userID, itemID uint) error {
	item, err := s.GetPlanItemByID(userID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// loadPlan fetches a plan regardless of owner; callers decide whether a
// foreign owner is a lookup failure or an ownership failure.
func (s *planItemService) loadPlan(planID uint) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// itemAmounts returns the amounts of a plan's items, excluding one item
// ID (0 excludes nothing).
func (s *planItemService) itemAmounts(planID, excludeItemID uint) ([]int64, error) {
	q := s.db.Model(&models.PlanItem{}).Where("plan_id = ?", planID)
	if excludeItemID != 0 {
		q = q.Where("id <> ?", excludeItemID)
	}
	var amounts []int64
	if err := q.Pluck("amount", &amounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return amounts, nil
}
