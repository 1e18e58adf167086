package models

import "time"

// Plan is a monthly survival plan: an income ceiling for one calendar
// month, split into categorized PlanItems. The Month column is always
// normalized to the first day of the month.
type Plan struct {
	Base
	UserID uint      `gorm:"not null;index:idx_plans_user_month,priority:1" json:"user_id"`
	Title  string    `gorm:"not null" json:"title"`
	Notes  string    `json:"notes"`
	Income int64     `gorm:"not null" json:"income"`
	Month  time.Time `gorm:"not null;index:idx_plans_user_month,priority:2" json:"-"`

	// Relationships
	Items []PlanItem `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Goals []Goal     `gorm:"many2many:plan_goals" json:"goals,omitempty"`
}

// PlanItem is a category-level allocation within a Plan. The sum of a
// plan's item amounts must never exceed the plan's income; that
// invariant is enforced by the plan item service before any write.
type PlanItem struct {
	Base
	PlanID   uint   `gorm:"not null;index" json:"plan_id"`
	Category string `gorm:"not null" json:"category"`
	Notes    string `json:"notes"`
	Amount   int64  `gorm:"not null" json:"amount"`
}
