package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskforge/backend/internal/middleware"
	"taskforge/backend/internal/services"
)

type InsightHandler struct {
	db             *gorm.DB
	insightService services.InsightService
}

func NewInsightHandler(db *gorm.DB, insightService services.InsightService) *InsightHandler {
	return &InsightHandler{db: db, insightService: insightService}
}

func (h *InsightHandler) GetProductivity(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	entries, err := h.insightService.Productivity(h.db, actor.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *InsightHandler) GetRisks(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	risks, err := h.insightService.Risks(h.db, actor.OrganizationID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, risks)
}

func (h *InsightHandler) GetTrend(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	trend, err := h.insightService.Trend(h.db, actor.OrganizationID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}
