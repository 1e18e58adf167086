package models

import "time"

// Expense is a dated, categorized spend record. Expenses are
// independent of any plan; the category is free text and is never
// validated against PlanItem categories.
type Expense struct {
	Base
	UserID   uint      `gorm:"not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	Title    string    `gorm:"not null" json:"title"`
	Category string    `json:"category"`
	Notes    string    `json:"notes"`
	Amount   int64     `gorm:"not null;default:0" json:"amount"`
	Date     time.Time `gorm:"not null;index:idx_expenses_user_date,priority:2" json:"date"`
}
