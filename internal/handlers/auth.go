package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskforge/backend/internal/middleware"
	"taskforge/backend/internal/models"
	"taskforge/backend/internal/services"
)

type AuthHandler struct {
	db          *gorm.DB
	authService services.AuthService
	tokens      *services.TokenIssuer
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService, tokens *services.TokenIssuer) *AuthHandler {
	return &AuthHandler{db: db, authService: authService, tokens: tokens}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           u.Role,
		"organizationId": u.OrganizationID,
	}
}

// RegisterOrg creates an organization together with its first Admin.
func (h *AuthHandler) RegisterOrg(c *gin.Context) {
	var req services.RegisterOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.RegisterOrganization(h.db, req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Organization and Admin registered successfully",
		"user":    userJSON(user),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.LoginUser(h.db, req.Email, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}
