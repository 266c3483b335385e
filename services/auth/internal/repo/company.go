package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/internhub/services/auth/internal/models"
)

func (r *GormRepo) FindCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	var c models.Company
	if err := r.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormRepo) FindCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CreateCompany stores c, assigning an id when it has none.
func (r *GormRepo) CreateCompany(ctx context.Context, c *models.Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Email = normalizeEmail(c.Email)
	return r.DB.WithContext(ctx).Create(c).Error
}

// PostOwner returns the company id that owns postID.
func (r *GormRepo) PostOwner(ctx context.Context, postID string) (string, error) {
	var p models.Post
	if err := r.DB.WithContext(ctx).Select("id", "company_id").Where("id = ?", postID).First(&p).Error; err != nil {
		return "", notFound(err)
	}
	return p.CompanyID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
