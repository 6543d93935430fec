package services

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskforge/backend/internal/engine"
	"taskforge/backend/internal/models"
)

type CreateTaskRequest struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	Status         models.Status   `json:"status"`
	Priority       models.Priority `json:"priority"`
	DueDate        *time.Time      `json:"dueDate"`
	AssignedUserID *uuid.UUID      `json:"assignedUserId"`
}

// TaskPatch carries the decoded fields of a partial update. The raw JSON key
// set travels separately so member field-scoping can reject unknown keys
// instead of ignoring them, and so explicit nulls can clear dueDate and
// assignedUserId.
type TaskPatch struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Status         *models.Status   `json:"status"`
	Priority       *models.Priority `json:"priority"`
	DueDate        *time.Time       `json:"dueDate"`
	AssignedUserID *uuid.UUID       `json:"assignedUserId"`
}

type TaskService interface {
	ListTasks(db *gorm.DB, actor engine.Actor) ([]models.Task, error)
	CreateTask(db *gorm.DB, actor engine.Actor, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(db *gorm.DB, actor engine.Actor, id uuid.UUID, patch TaskPatch, fields []string) (*models.Task, error)
	DeleteTask(db *gorm.DB, actor engine.Actor, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// ListTasks returns the organization's tasks, newest first. Members are
// scoped to their assigned tasks in the query itself.
func (s *TaskServiceImpl) ListTasks(db *gorm.DB, actor engine.Actor) ([]models.Task, error) {
	query := db.Where("organization_id = ?", actor.OrganizationID)
	if !engine.CanListAllTasks(actor) {
		query = query.Where("assigned_user_id = ?", actor.ID)
	}

	var tasks []models.Task
	err := query.
		Preload("Assignee", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, actor engine.Actor, req CreateTaskRequest) (*models.Task, error) {
	if d := engine.CanCreateTask(actor); !d.Allowed {
		return nil, d.Err
	}

	status := req.Status
	if status == "" {
		status = models.StatusOpen
	}
	if !status.Valid() {
		return nil, engine.Validation("Invalid status")
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, engine.Validation("Invalid priority")
	}

	if req.AssignedUserID != nil {
		if err := s.checkAssignee(db, actor.OrganizationID, *req.AssignedUserID); err != nil {
			return nil, err
		}
	}

	task := models.Task{
		ID:             uuid.Must(uuid.NewV4()),
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        req.DueDate,
		AssignedUserID: req.AssignedUserID,
		OrganizationID: actor.OrganizationID,
		CompletedAt:    engine.CompletionTimestamp(models.StatusOpen, status, nil, time.Now()),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, actor engine.Actor, id uuid.UUID, patch TaskPatch, fields []string) (*models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND organization_id = ?", id, actor.OrganizationID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, engine.NotFound("Task not found")
		}
		return nil, err
	}

	if d := engine.CanUpdateTask(actor, &task, fields); !d.Allowed {
		return nil, d.Err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, engine.Validation("Invalid priority")
		}
		task.Priority = *patch.Priority
	}
	if hasField(fields, "dueDate") {
		task.DueDate = patch.DueDate
	}
	if hasField(fields, "assignedUserId") {
		if patch.AssignedUserID != nil {
			if err := s.checkAssignee(db, actor.OrganizationID, *patch.AssignedUserID); err != nil {
				return nil, err
			}
		}
		task.AssignedUserID = patch.AssignedUserID
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, engine.Validation("Invalid status")
		}
		task.CompletedAt = engine.CompletionTimestamp(task.Status, *patch.Status, task.CompletedAt, time.Now())
		task.Status = *patch.Status
	}

	// Save with Select so cleared dueDate/assignee and cleared completedAt
	// actually write NULL.
	err = db.Model(&task).
		Select("title", "description", "status", "priority", "due_date", "completed_at", "assigned_user_id", "updated_at").
		Updates(map[string]interface{}{
			"title":            task.Title,
			"description":      task.Description,
			"status":           task.Status,
			"priority":         task.Priority,
			"due_date":         task.DueDate,
			"completed_at":     task.CompletedAt,
			"assigned_user_id": task.AssignedUserID,
			"updated_at":       time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, actor engine.Actor, id uuid.UUID) error {
	var task models.Task
	err := db.Where("id = ? AND organization_id = ?", id, actor.OrganizationID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.NotFound("Task not found")
		}
		return err
	}

	if d := engine.CanDeleteTask(actor, &task); !d.Allowed {
		return d.Err
	}

	return db.Delete(&task).Error
}

// checkAssignee rejects assignment to users outside the actor's organization.
func (s *TaskServiceImpl) checkAssignee(db *gorm.DB, orgID, userID uuid.UUID) error {
	var count int64
	err := db.Model(&models.User{}).
		Where("id = ? AND organization_id = ?", userID, orgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return engine.Validation("Assigned user must belong to your organization")
	}
	return nil
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
