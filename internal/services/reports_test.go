package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"taskforge/backend/internal/models"
	"taskforge/backend/internal/services"
)

type ReportServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.ReportServiceImpl
	org     *models.Organization
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = services.NewReportService()
	s.org = seedOrg(s.T(), s.db, "acme")
}

func (s *ReportServiceTestSuite) createTask(title string, createdAt time.Time, dueDate *time.Time, assignee *models.User) {
	task := &models.Task{
		ID:             uuid.Must(uuid.NewV4()),
		Title:          title,
		Status:         models.StatusOpen,
		Priority:       models.PriorityMedium,
		DueDate:        dueDate,
		OrganizationID: s.org.ID,
		CreatedAt:      createdAt,
	}
	if assignee != nil {
		task.AssignedUserID = &assignee.ID
	}
	s.Require().NoError(s.db.Create(task).Error)
}

func (s *ReportServiceTestSuite) TestExportHeaderOnlyWhenEmpty() {
	csv, err := s.service.ExportTasksCSV(s.db, s.org.ID)
	s.Require().NoError(err)
	s.Equal("ID,Title,Status,Priority,Due Date,Assignee,Created At", csv)
}

func (s *ReportServiceTestSuite) TestExportRowsOldestFirstWithRowNumbers() {
	bob := seedUser(s.T(), s.db, s.org, "bob", models.RoleMember)
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	due := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	// Inserted newest first to prove the export re-orders by creation time.
	s.createTask("newest", base.Add(48*time.Hour), nil, nil)
	s.createTask("oldest", base, &due, bob)

	csv, err := s.service.ExportTasksCSV(s.db, s.org.ID)
	s.Require().NoError(err)

	lines := strings.Split(csv, "\n")
	s.Require().Len(lines, 3)
	s.Equal(`1,"oldest",Open,Medium,2025-04-15,"bob",2025-04-01`, lines[1])
	s.Equal(`2,"newest",Open,Medium,,Unassigned,2025-04-03`, lines[2])
}

func (s *ReportServiceTestSuite) TestExportEscapesEmbeddedQuotes() {
	s.createTask(`He said "hi"`, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), nil, nil)

	csv, err := s.service.ExportTasksCSV(s.db, s.org.ID)
	s.Require().NoError(err)
	s.Contains(csv, `"He said ""hi"""`)
}

func (s *ReportServiceTestSuite) TestExportScopedToOrganization() {
	other := seedOrg(s.T(), s.db, "globex")
	seedTask(s.T(), s.db, other, "foreign", models.StatusOpen, nil)

	csv, err := s.service.ExportTasksCSV(s.db, s.org.ID)
	s.Require().NoError(err)
	s.NotContains(csv, "foreign")
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
