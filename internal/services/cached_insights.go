package services

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskforge/backend/internal/cache"
	"taskforge/backend/internal/insights"
)

const insightsTTL = 5 * time.Minute

// CachedInsightService serves insight payloads from Redis when fresh and
// recomputes through the wrapped service on a miss. Trend is not cached: its
// buckets shift with the request's reference time.
type CachedInsightService struct {
	inner InsightService
	cache *cache.InsightsCache
}

func NewCachedInsightService(inner InsightService, c *cache.InsightsCache) *CachedInsightService {
	return &CachedInsightService{inner: inner, cache: c}
}

func (s *CachedInsightService) Productivity(db *gorm.DB, orgID uuid.UUID) ([]insights.ProductivityEntry, error) {
	key := cache.Key("productivity", orgID)

	var cached []insights.ProductivityEntry
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	entries, err := s.inner.Productivity(db, orgID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, entries, insightsTTL)
	return entries, nil
}

func (s *CachedInsightService) Risks(db *gorm.DB, orgID uuid.UUID, referenceTime time.Time) ([]insights.RiskEntry, error) {
	key := cache.Key("risks", orgID)

	var cached []insights.RiskEntry
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	entries, err := s.inner.Risks(db, orgID, referenceTime)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, entries, insightsTTL)
	return entries, nil
}

func (s *CachedInsightService) Trend(db *gorm.DB, orgID uuid.UUID, referenceTime time.Time) ([]insights.TrendPoint, error) {
	return s.inner.Trend(db, orgID, referenceTime)
}

// Refresh recomputes and re-caches the organization's insight payloads,
// called from the background refresh job after task mutations.
func (s *CachedInsightService) Refresh(db *gorm.DB, orgID uuid.UUID) error {
	if err := s.cache.InvalidateOrganization(orgID); err != nil {
		return err
	}

	entries, err := s.inner.Productivity(db, orgID)
	if err != nil {
		return err
	}
	if err := s.cache.Set(cache.Key("productivity", orgID), entries, insightsTTL); err != nil {
		return err
	}

	risks, err := s.inner.Risks(db, orgID, time.Now())
	if err != nil {
		return err
	}
	return s.cache.Set(cache.Key("risks", orgID), risks, insightsTTL)
}
