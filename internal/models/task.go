package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to an organization; AssignedUserID is a non-owning reference
// to a user in the same organization and may be null. CompletedAt is derived
// from status changes and is never set directly by a caller.
type Task struct {
	ID             uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description"`
	Status         Status     `json:"status" gorm:"size:20;not null;default:'Open';index"`
	Priority       Priority   `json:"priority" gorm:"size:20;not null;default:'Medium'"`
	DueDate        *time.Time `json:"dueDate"`
	CompletedAt    *time.Time `json:"completedAt" gorm:"index"`
	AssignedUserID *uuid.UUID `json:"assignedUserId" gorm:"type:uuid;index"`
	OrganizationID uuid.UUID  `json:"organizationId" gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Assignee *User `json:"assignee,omitempty" gorm:"foreignKey:AssignedUserID"`
}
