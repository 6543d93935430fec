package services_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"taskforge/backend/internal/cache"
	"taskforge/backend/internal/models"
	"taskforge/backend/internal/services"
)

type InsightServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.InsightServiceImpl
	org     *models.Organization
}

func (s *InsightServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = services.NewInsightService()
	s.org = seedOrg(s.T(), s.db, "acme")
}

func (s *InsightServiceTestSuite) TestProductivityFromStore() {
	alice := seedUser(s.T(), s.db, s.org, "alice", models.RoleMember)
	bob := seedUser(s.T(), s.db, s.org, "bob", models.RoleMember)

	seedTask(s.T(), s.db, s.org, "a1", models.StatusCompleted, alice)
	seedTask(s.T(), s.db, s.org, "a2", models.StatusOpen, alice)
	seedTask(s.T(), s.db, s.org, "b1", models.StatusOpen, bob)
	seedTask(s.T(), s.db, s.org, "unassigned", models.StatusCompleted, nil)

	entries, err := s.service.Productivity(s.db, s.org.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal("alice", entries[0].Name)
	s.Equal(50, entries[0].Score)
	s.Equal("bob", entries[1].Name)
	s.Equal(0, entries[1].Score)
}

func (s *InsightServiceTestSuite) TestRisksFromStore() {
	alice := seedUser(s.T(), s.db, s.org, "alice", models.RoleMember)
	for i := 0; i < 6; i++ {
		seedTask(s.T(), s.db, s.org, "t", models.StatusOpen, alice)
	}

	risks, err := s.service.Risks(s.db, s.org.ID, time.Now())
	s.Require().NoError(err)
	s.Require().Len(risks, 1)
	s.Equal("6 active tasks", risks[0].Details)
}

func (s *InsightServiceTestSuite) TestTrendCountsRecentCompletions() {
	ref := time.Now()

	seedTask(s.T(), s.db, s.org, "recent", models.StatusCompleted, nil)

	stale := seedTask(s.T(), s.db, s.org, "stale", models.StatusCompleted, nil)
	old := ref.AddDate(0, 0, -10)
	s.Require().NoError(s.db.Model(stale).Update("completed_at", old).Error)

	trend, err := s.service.Trend(s.db, s.org.ID, ref)
	s.Require().NoError(err)
	s.Require().Len(trend, 7)

	total := 0
	for _, point := range trend {
		total += point.Count
	}
	s.Equal(1, total)
}

func (s *InsightServiceTestSuite) TestCachedProductivityServedFromRedis() {
	mini, err := miniredis.Run()
	s.Require().NoError(err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()
	cached := services.NewCachedInsightService(s.service, cache.NewInsightsCache(client))

	alice := seedUser(s.T(), s.db, s.org, "alice", models.RoleMember)
	seedTask(s.T(), s.db, s.org, "a1", models.StatusCompleted, alice)

	first, err := cached.Productivity(s.db, s.org.ID)
	s.Require().NoError(err)
	s.Require().Len(first, 1)
	s.Equal(100, first[0].Score)

	// New data is invisible until the cache entry is refreshed.
	seedTask(s.T(), s.db, s.org, "a2", models.StatusOpen, alice)
	second, err := cached.Productivity(s.db, s.org.ID)
	s.Require().NoError(err)
	s.Equal(100, second[0].Score)

	s.Require().NoError(cached.Refresh(s.db, s.org.ID))
	third, err := cached.Productivity(s.db, s.org.ID)
	s.Require().NoError(err)
	s.Equal(50, third[0].Score)
}

func TestInsightServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InsightServiceTestSuite))
}
