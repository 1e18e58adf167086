package models

import "time"

// PlanGoal is the explicit join row for the many-to-many Plan<->Goal
// association. Position records attachment order, which is the order
// goals are listed and evaluated in for a plan.
type PlanGoal struct {
	PlanID    uint      `gorm:"primaryKey" json:"plan_id"`
	GoalID    uint      `gorm:"primaryKey" json:"goal_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the join table name shared with the many2many tags.
func (PlanGoal) TableName() string { return "plan_goals" }
