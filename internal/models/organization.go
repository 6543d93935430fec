package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Organization is the tenant boundary. Users and tasks are owned by exactly
// one organization and are removed with it.
type Organization struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"size:150;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Users []User `json:"users,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}
