package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Role is the closed set of user roles. Authorization branches switch on it
// exhaustively; an unknown value never falls through to "allowed".
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleLeader Role = "Leader"
	RoleMember Role = "Member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeader, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name           string    `json:"name" gorm:"size:100;not null"`
	Email          string    `json:"email" gorm:"size:150;uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"not null"`
	Role           Role      `json:"role" gorm:"size:20;not null;default:'Member'"`
	OrganizationID uuid.UUID `json:"organizationId" gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	AssignedTasks []Task `json:"assignedTasks,omitempty" gorm:"foreignKey:AssignedUserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
