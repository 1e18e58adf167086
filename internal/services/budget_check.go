package services

import (
	apperrors "survivalist/internal/errors"
)

// Action-specific phrasing for budget overflow messages. The final
// message is "<phrase> by (<overflow>)".
const (
	budgetPhraseAdd  = "Adding this item will exceed the income"
	budgetPhraseEdit = "Editing this item will exceed the income"
	budgetPhraseMove = "Moving this item will exceed the new plan's income"
)

// checkBudget verifies that candidate plus the given existing item
// amounts stays within the plan income. The caller decides which items
// count as "existing": on create, all of the plan's items; on an
// amount edit, the plan's items minus the row being edited; on a move,
// all of the destination plan's items.
//
// Pure check, no side effects. Returns a BUDGET_OVERFLOW error carrying
// the excess when the ceiling would be breached.
func checkBudget(phrase string, income int64, existing []int64, candidate int64) error {
	total := candidate
	for _, amount := range existing {
		total += amount
	}
	if total > income {
		return apperrors.BudgetOverflowError(phrase, total-income)
	}
	return nil
}
