package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &company, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", update.ID).
		Updates(update)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteCompany removes the company and everything hanging off it: member
// affiliations are cleared, cooperative memberships dropped, and the
// company chat with its messages deleted.
func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		tx := repo.db.WithContext(ctx)

		if err := tx.Model(&models.Profile{}).
			Where("company_id = ?", id).
			Update("company_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM cooperative_companies WHERE company_id = ?", id).Error; err != nil {
			return err
		}
		if err := repo.deleteChatsWhere(ctx, "company_id = ?", id); err != nil {
			return err
		}

		result := tx.Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&companies)
	return companies, result.Error
}

func (r *Repository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// CompanyMembers lists the users whose profile currently points at the
// company.
func (r *Repository) CompanyMembers(ctx context.Context, companyID uuid.UUID) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.company_id = ?", companyID).
		Order("users.username ASC").
		Find(&users)
	return users, result.Error
}

func (r *Repository) CountCompanies(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count)
	return count, result.Error
}

func (r *Repository) CreateCooperative(ctx context.Context, cooperative *models.Cooperative) error {
	result := r.db.WithContext(ctx).Create(cooperative)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

// GetCooperative loads a cooperative with its current member companies.
func (r *Repository) GetCooperative(ctx context.Context, id uuid.UUID) (*models.Cooperative, error) {
	var cooperative models.Cooperative
	result := r.db.WithContext(ctx).Preload("Companies").First(&cooperative, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &cooperative, nil
}

func (r *Repository) UpdateCooperative(ctx context.Context, update *models.CooperativeUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Cooperative{}).
		Where("id = ?", update.ID).
		Updates(update)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCooperative(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		tx := repo.db.WithContext(ctx)

		if err := tx.Exec("DELETE FROM cooperative_companies WHERE cooperative_id = ?", id).Error; err != nil {
			return err
		}
		if err := repo.deleteChatsWhere(ctx, "cooperative_id = ?", id); err != nil {
			return err
		}

		result := tx.Delete(&models.Cooperative{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ListCooperatives(ctx context.Context) ([]models.Cooperative, error) {
	var cooperatives []models.Cooperative
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&cooperatives)
	return cooperatives, result.Error
}

func (r *Repository) CooperativeExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Cooperative{}).
		Where("name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) AddCompanyToCooperative(ctx context.Context, cooperativeID, companyID uuid.UUID) error {
	coop := models.Cooperative{ID: cooperativeID}
	company := models.Company{ID: companyID}
	return r.db.WithContext(ctx).Model(&coop).Association("Companies").Append(&company)
}

func (r *Repository) RemoveCompanyFromCooperative(ctx context.Context, cooperativeID, companyID uuid.UUID) error {
	coop := models.Cooperative{ID: cooperativeID}
	company := models.Company{ID: companyID}
	return r.db.WithContext(ctx).Model(&coop).Association("Companies").Delete(&company)
}

// CooperativeHasCompany reports current membership of a company in a
// cooperative.
func (r *Repository) CooperativeHasCompany(ctx context.Context, cooperativeID, companyID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Table("cooperative_companies").
		Where("cooperative_id = ? AND company_id = ?", cooperativeID, companyID).
		Count(&count)
	return count > 0, result.Error
}

// CooperativesForCompany lists the cooperatives the company currently
// belongs to.
func (r *Repository) CooperativesForCompany(ctx context.Context, companyID uuid.UUID) ([]models.Cooperative, error) {
	var cooperatives []models.Cooperative
	result := r.db.WithContext(ctx).Model(&models.Cooperative{}).
		Joins("JOIN cooperative_companies cc ON cc.cooperative_id = cooperatives.id").
		Where("cc.company_id = ?", companyID).
		Order("cooperatives.created_at DESC").
		Find(&cooperatives)
	return cooperatives, result.Error
}

func (r *Repository) CountCooperatives(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Cooperative{}).Count(&count)
	return count, result.Error
}
