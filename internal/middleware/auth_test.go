package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskforge/backend/internal/config"
	"taskforge/backend/internal/database"
	"taskforge/backend/internal/middleware"
	"taskforge/backend/internal/models"
	"taskforge/backend/internal/services"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tokens *services.TokenIssuer
	router *gin.Engine
	user   *models.User
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))
	s.db = db

	org := &models.Organization{ID: uuid.Must(uuid.NewV4()), Name: "acme"}
	s.Require().NoError(db.Create(org).Error)
	s.user = &models.User{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           "alice",
		Email:          "alice@acme.test",
		Password:       "irrelevant",
		Role:           models.RoleAdmin,
		OrganizationID: org.ID,
	}
	s.Require().NoError(db.Create(s.user).Error)

	s.tokens = services.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})

	s.router = gin.New()
	s.router.GET("/protected", middleware.AuthMiddleware(db, s.tokens), func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		require.True(s.T(), ok)
		c.JSON(http.StatusOK, gin.H{"name": user.Name})
	})
	s.router.GET("/admin-only",
		middleware.AuthMiddleware(db, s.tokens),
		middleware.RequireRoles(models.RoleAdmin, models.RoleLeader),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
}

func (s *AuthMiddlewareTestSuite) request(path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthMiddlewareTestSuite) TestMissingHeader() {
	w := s.request("/protected", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestMalformedHeader() {
	w := s.request("/protected", "Token abc123")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestInvalidToken() {
	w := s.request("/protected", "Bearer not-a-jwt")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestWrongSecret() {
	forged := services.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "other-secret",
		TokenTTL:  time.Hour,
	})
	token, err := forged.Issue(s.user.ID)
	s.Require().NoError(err)

	w := s.request("/protected", "Bearer "+token)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestDeletedUserRejected() {
	token, err := s.tokens.Issue(s.user.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Delete(s.user).Error)

	w := s.request("/protected", "Bearer "+token)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestValidToken() {
	token, err := s.tokens.Issue(s.user.ID)
	s.Require().NoError(err)

	w := s.request("/protected", "Bearer "+token)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "alice")
}

func (s *AuthMiddlewareTestSuite) TestRequireRoles() {
	token, err := s.tokens.Issue(s.user.ID)
	s.Require().NoError(err)

	w := s.request("/admin-only", "Bearer "+token)
	s.Equal(http.StatusOK, w.Code)

	// Demoted to member, the same token no longer passes the role gate.
	s.Require().NoError(s.db.Model(s.user).Update("role", models.RoleMember).Error)
	w = s.request("/admin-only", "Bearer "+token)
	s.Equal(http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
