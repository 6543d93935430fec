package services

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskforge/backend/internal/insights"
	"taskforge/backend/internal/models"
)

type InsightService interface {
	Productivity(db *gorm.DB, orgID uuid.UUID) ([]insights.ProductivityEntry, error)
	Risks(db *gorm.DB, orgID uuid.UUID, referenceTime time.Time) ([]insights.RiskEntry, error)
	Trend(db *gorm.DB, orgID uuid.UUID, referenceTime time.Time) ([]insights.TrendPoint, error)
}

type InsightServiceImpl struct{}

func NewInsightService() *InsightServiceImpl {
	return &InsightServiceImpl{}
}

func (s *InsightServiceImpl) Productivity(db *gorm.DB, orgID uuid.UUID) ([]insights.ProductivityEntry, error) {
	snapshot, err := s.loadSnapshot(db, orgID)
	if err != nil {
		return nil, err
	}
	return insights.Productivity(snapshot), nil
}

func (s *InsightServiceImpl) Risks(db *gorm.DB, orgID uuid.UUID, referenceTime time.Time) ([]insights.RiskEntry, error) {
	snapshot, err := s.loadSnapshot(db, orgID)
	if err != nil {
		return nil, err
	}
	return insights.Risks(snapshot, referenceTime), nil
}

func (s *InsightServiceImpl) Trend(db *gorm.DB, orgID uuid.UUID, referenceTime time.Time) ([]insights.TrendPoint, error) {
	windowStart := referenceTime.AddDate(0, 0, -7)

	var completions []time.Time
	err := db.Model(&models.Task{}).
		Where("organization_id = ? AND completed_at IS NOT NULL AND completed_at >= ?", orgID, windowStart).
		Pluck("completed_at", &completions).Error
	if err != nil {
		return nil, err
	}
	return insights.Trend(completions, referenceTime), nil
}

// loadSnapshot reads the organization's users with their assigned tasks in
// stable (creation) order for the pure analytics functions.
func (s *InsightServiceImpl) loadSnapshot(db *gorm.DB, orgID uuid.UUID) ([]insights.MemberTasks, error) {
	var users []models.User
	err := db.Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Preload("AssignedTasks").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	snapshot := make([]insights.MemberTasks, 0, len(users))
	for _, u := range users {
		snapshot = append(snapshot, insights.MemberTasks{
			UserID: u.ID,
			Name:   u.Name,
			Tasks:  u.AssignedTasks,
		})
	}
	return snapshot, nil
}
