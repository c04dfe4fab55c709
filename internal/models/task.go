package models

import "time"

// Task is a work item owned by exactly one user. The owner is set at
// creation and never changes; every query against tasks is filtered by it.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description *string   `json:"description" gorm:"size:1000"`
	IsDone      bool      `json:"isDone" gorm:"not null;default:false"`
	UserID      uint      `json:"-" gorm:"not null;index"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
