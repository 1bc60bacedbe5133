package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/models"
	"gorm.io/gorm"
)

// CreateUserWithProfile persists a user together with its freshly
// initialized profile in a single transaction, so an account can never
// exist without one.
func (r *Repository) CreateUserWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		if err := repo.db.WithContext(ctx).Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return e.ErrDuplicateName
			}
			return err
		}
		profile.UserID = user.ID
		return repo.db.WithContext(ctx).Create(profile).Error
	})
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &user, nil
}

func (r *Repository) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).Order("username ASC").Find(&users)
	return users, result.Error
}

// GetProfile returns the profile for a user with its current company
// preloaded. Every access decision starts here.
func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	result := r.db.WithContext(ctx).Preload("Company").First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &profile, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", update.UserID).
		Updates(update)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// SetProfileCompany points the user's profile at companyID; nil clears the
// affiliation.
func (r *Repository) SetProfileCompany(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("company_id", companyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
