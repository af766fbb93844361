package repositories

import (
	"context"
	"errors"
	"strings"

	"kriya/internal/apperr"
	"kriya/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db     *gorm.DB
	policy Policy
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, policy Policy) *GORMUserRepository {
	return &GORMUserRepository{
		db:     db,
		policy: policy,
	}
}

// Create creates a new user in the database. Emails are stored lower-cased.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(user.Email)
	return exec(ctx, r.policy, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
			return apperr.Storage(err, "failed to create user")
		}
		return nil
	})
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email), "email")
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id, "ID")
}

func (r *GORMUserRepository) first(ctx context.Context, cond, value, label string) (*models.User, error) {
	return do(ctx, r.policy, func(ctx context.Context) (*models.User, error) {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, cond, value).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("user with %s %s not found", label, value)
			}
			return nil, apperr.Storage(err, "failed to get user by %s %s", label, value)
		}
		return &user, nil
	})
}
