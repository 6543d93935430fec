package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"taskforge/backend/internal/handlers"
	"taskforge/backend/internal/models"
	"taskforge/backend/internal/services"
)

type InsightHandlerTestSuite struct {
	suite.Suite
	db *gorm.DB

	org   *models.Organization
	admin *models.User
}

func (s *InsightHandlerTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.org = seedOrg(s.T(), s.db, "acme")
	s.admin = seedUser(s.T(), s.db, s.org, "alice", models.RoleAdmin)
}

func (s *InsightHandlerTestSuite) router() *gin.Engine {
	insightHandler := handlers.NewInsightHandler(s.db, services.NewInsightService())
	reportHandler := handlers.NewReportHandler(s.db, services.NewReportService())

	router := gin.New()
	api := router.Group("/api", actAs(s.admin))
	api.GET("/insights/productivity", insightHandler.GetProductivity)
	api.GET("/insights/risks", insightHandler.GetRisks)
	api.GET("/insights/trend", insightHandler.GetTrend)
	api.GET("/reports/tasks/export", reportHandler.ExportTasks)
	return router
}

func (s *InsightHandlerTestSuite) TestProductivity() {
	bob := seedUser(s.T(), s.db, s.org, "bob", models.RoleMember)
	seedTask(s.T(), s.db, s.org, "done", models.StatusCompleted, bob)
	seedTask(s.T(), s.db, s.org, "open", models.StatusOpen, bob)

	w := doJSON(s.T(), s.router(), http.MethodGet, "/api/insights/productivity", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"score":50`)
}

func (s *InsightHandlerTestSuite) TestRisks() {
	bob := seedUser(s.T(), s.db, s.org, "bob", models.RoleMember)
	for i := 0; i < 6; i++ {
		seedTask(s.T(), s.db, s.org, "t", models.StatusOpen, bob)
	}

	w := doJSON(s.T(), s.router(), http.MethodGet, "/api/insights/risks", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Burnout Risk")
	s.Contains(w.Body.String(), "6 active tasks")
}

func (s *InsightHandlerTestSuite) TestTrendAlwaysSevenPoints() {
	w := doJSON(s.T(), s.router(), http.MethodGet, "/api/insights/trend", nil)
	s.Equal(http.StatusOK, w.Code)

	var trend []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &trend))
	s.Len(trend, 7)
}

func (s *InsightHandlerTestSuite) TestExportTasks() {
	seedTask(s.T(), s.db, s.org, "exported", models.StatusOpen, nil)

	w := doJSON(s.T(), s.router(), http.MethodGet, "/api/reports/tasks/export", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("text/csv", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "tasks_report.csv")
	s.Contains(w.Body.String(), "ID,Title,Status,Priority,Due Date,Assignee,Created At")
	s.Contains(w.Body.String(), `"exported"`)
}

func TestInsightHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InsightHandlerTestSuite))
}
