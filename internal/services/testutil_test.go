package services_test

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskforge/backend/internal/database"
	"taskforge/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedOrg(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		ID:   uuid.Must(uuid.NewV4()),
		Name: name,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func seedUser(t *testing.T, db *gorm.DB, org *models.Organization, name string, role models.Role) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           name,
		Email:          name + "@" + org.Name + ".test",
		Password:       string(hashed),
		Role:           role,
		OrganizationID: org.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTask(t *testing.T, db *gorm.DB, org *models.Organization, title string, status models.Status, assignee *models.User) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:             uuid.Must(uuid.NewV4()),
		Title:          title,
		Status:         status,
		Priority:       models.PriorityMedium,
		OrganizationID: org.ID,
	}
	if assignee != nil {
		task.AssignedUserID = &assignee.ID
	}
	if status == models.StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
