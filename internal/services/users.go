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

type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required,min=1,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     models.Role `json:"role"`
}

type UpdateUserRequest struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Role  *models.Role `json:"role"`
}

type UserService interface {
	ListUsers(db *gorm.DB, orgID uuid.UUID) ([]models.User, error)
	CreateUser(db *gorm.DB, actor engine.Actor, req CreateUserRequest) (*models.User, error)
	UpdateUser(db *gorm.DB, actor engine.Actor, id uuid.UUID, req UpdateUserRequest) (*models.User, error)
	DeleteUser(db *gorm.DB, actor engine.Actor, id uuid.UUID) error
	TransferOwnership(db *gorm.DB, actor engine.Actor, targetID uuid.UUID, demoteCurrent bool) (*models.User, error)
}

type UserServiceImpl struct {
	bcryptCost int
}

func NewUserService(bcryptCost int) *UserServiceImpl {
	return &UserServiceImpl{bcryptCost: bcryptCost}
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, orgID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := db.Where("organization_id = ?", orgID).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserServiceImpl) CreateUser(db *gorm.DB, actor engine.Actor, req CreateUserRequest) (*models.User, error) {
	if d := engine.CanManageUsers(actor); !d.Allowed {
		return nil, d.Err
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, engine.Validation("Invalid role")
	}

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

	user := models.User{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           role,
		OrganizationID: actor.OrganizationID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, engine.Conflict("User already exists")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies name/email/role changes. The admin count backing the
// last-admin check is read inside the same transaction as the write.
func (s *UserServiceImpl) UpdateUser(db *gorm.DB, actor engine.Actor, id uuid.UUID, req UpdateUserRequest) (*models.User, error) {
	var target models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.NotFound("User not found")
			}
			return err
		}

		adminCount, err := s.countAdmins(tx, actor.OrganizationID)
		if err != nil {
			return err
		}

		if d := engine.CanUpdateUser(actor, &target, req.Role, adminCount); !d.Allowed {
			return d.Err
		}

		if req.Name != nil {
			target.Name = *req.Name
		}
		if req.Email != nil {
			target.Email = *req.Email
		}
		if req.Role != nil {
			target.Role = *req.Role
		}

		if err := tx.Save(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return engine.Conflict("Email already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (s *UserServiceImpl) DeleteUser(db *gorm.DB, actor engine.Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.First(&target, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.NotFound("User not found")
			}
			return err
		}

		adminCount, err := s.countAdmins(tx, actor.OrganizationID)
		if err != nil {
			return err
		}

		if d := engine.CanDeleteUser(actor, &target, adminCount); !d.Allowed {
			return d.Err
		}

		return tx.Delete(&target).Error
	})
}

// TransferOwnership promotes the target to Admin and optionally demotes the
// actor to Member. Both writes commit together or not at all.
func (s *UserServiceImpl) TransferOwnership(db *gorm.DB, actor engine.Actor, targetID uuid.UUID, demoteCurrent bool) (*models.User, error) {
	var target models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.NotFound("Target user not found")
			}
			return err
		}

		if d := engine.CanTransferOwnership(actor, &target); !d.Allowed {
			return d.Err
		}

		target.Role = models.RoleAdmin
		if err := tx.Save(&target).Error; err != nil {
			return err
		}

		if demoteCurrent {
			var current models.User
			if err := tx.First(&current, "id = ?", actor.ID).Error; err != nil {
				return err
			}
			current.Role = models.RoleMember
			if err := tx.Save(&current).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (s *UserServiceImpl) countAdmins(tx *gorm.DB, orgID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&models.User{}).
		Where("organization_id = ? AND role = ?", orgID, models.RoleAdmin).
		Count(&count).Error
	return count, err
}
