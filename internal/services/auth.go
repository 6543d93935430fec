package services

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskforge/backend/internal/engine"
	"taskforge/backend/internal/models"
)

// ErrInvalidCredentials is returned by LoginUser for a wrong email or
// password; the handler maps it to 401 without detail.
var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterOrgRequest struct {
	OrgName  string `json:"orgName" binding:"required,min=1,max=150"`
	UserName string `json:"userName" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthService interface {
	RegisterOrganization(db *gorm.DB, req RegisterOrgRequest) (*models.User, error)
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
}

type AuthServiceImpl struct {
	bcryptCost int
}

func NewAuthService(bcryptCost int) *AuthServiceImpl {
	return &AuthServiceImpl{bcryptCost: bcryptCost}
}

// RegisterOrganization creates the organization and its first Admin in one
// transaction; a unique-email collision discovered at write time rolls both
// back.
func (s *AuthServiceImpl) RegisterOrganization(db *gorm.DB, req RegisterOrgRequest) (*models.User, error) {
	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, engine.Conflict("User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	org := models.Organization{
		ID:   uuid.Must(uuid.NewV4()),
		Name: req.OrgName,
	}
	user := models.User{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           req.UserName,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           models.RoleAdmin,
		OrganizationID: org.ID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return engine.Conflict("User already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
