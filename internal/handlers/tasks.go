package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskforge/backend/internal/middleware"
	"taskforge/backend/internal/services"
	"taskforge/backend/internal/worker"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	jobs        *worker.JobQueue
	jobQueue    string
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, jobs *worker.JobQueue, jobQueue string) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, jobs: jobs, jobQueue: jobQueue}
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	tasks, err := h.taskService.ListTasks(h.db, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(h.db, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.scheduleInsightsRefresh(actor.OrganizationID)
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	// The raw key set matters: members may send exactly {"status"}, and an
	// explicit null clears dueDate or assignedUserId.
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	fields := make([]string, 0, len(body))
	for k := range body {
		fields = append(fields, k)
	}
	var patch services.TaskPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	task, err := h.taskService.UpdateTask(h.db, actor, id, patch, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	h.scheduleInsightsRefresh(actor.OrganizationID)
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	if err := h.taskService.DeleteTask(h.db, actor, id); err != nil {
		respondError(c, err)
		return
	}

	h.scheduleInsightsRefresh(actor.OrganizationID)
	c.JSON(http.StatusOK, gin.H{"message": "Task removed successfully"})
}

func (h *TaskHandler) scheduleInsightsRefresh(orgID uuid.UUID) {
	if h.jobs == nil {
		return
	}
	err := h.jobs.Enqueue(h.jobQueue, worker.JobTypeInsightsRefresh, map[string]string{
		"organization_id": orgID.String(),
	})
	if err != nil {
		// Stale cache entries expire on their own; the mutation succeeded.
		return
	}
}
