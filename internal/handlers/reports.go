package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskforge/backend/internal/middleware"
	"taskforge/backend/internal/services"
)

type ReportHandler struct {
	db            *gorm.DB
	reportService services.ReportService
}

func NewReportHandler(db *gorm.DB, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{db: db, reportService: reportService}
}

func (h *ReportHandler) ExportTasks(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	csv, err := h.reportService.ExportTasksCSV(h.db, actor.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="tasks_report.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}
