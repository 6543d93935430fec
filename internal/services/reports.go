package services

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskforge/backend/internal/models"
)

type ReportService interface {
	ExportTasksCSV(db *gorm.DB, orgID uuid.UUID) (string, error)
}

type ReportServiceImpl struct{}

func NewReportService() *ReportServiceImpl {
	return &ReportServiceImpl{}
}

// ExportTasksCSV renders the organization's tasks, oldest first. The ID
// column is the 1-based row number; Title and Assignee are quoted with
// embedded quotes doubled; unassigned rows render Unassigned.
func (s *ReportServiceImpl) ExportTasksCSV(db *gorm.DB, orgID uuid.UUID) (string, error) {
	var tasks []models.Task
	err := db.Where("organization_id = ?", orgID).
		Preload("Assignee", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("ID,Title,Status,Priority,Due Date,Assignee,Created At")

	for i, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format("2006-01-02")
		}
		assignee := "Unassigned"
		if task.Assignee != nil {
			assignee = quoteCSV(task.Assignee.Name)
		}

		b.WriteString(fmt.Sprintf("\n%d,%s,%s,%s,%s,%s,%s",
			i+1,
			quoteCSV(task.Title),
			task.Status,
			task.Priority,
			dueDate,
			assignee,
			task.CreatedAt.Format("2006-01-02"),
		))
	}
	return b.String(), nil
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
