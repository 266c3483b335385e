package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/internhub/services/auth/internal/models"
	"github.com/Skotchmaster/internhub/services/auth/internal/repo"
)

// Principal is whoever can log in: for now only companies.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string
}

// Directory resolves principals of one role. Lookups that find nothing
// return ErrPrincipalNotFound.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*Principal, error)
	FindByID(ctx context.Context, id string) (*Principal, error)
}

type CompanyDirectory struct {
	Repo *repo.GormRepo
}

func (d CompanyDirectory) FindByEmail(ctx context.Context, email string) (*Principal, error) {
	c, err := d.Repo.FindCompanyByEmail(ctx, email)
	return companyPrincipal(c, err)
}

func (d CompanyDirectory) FindByID(ctx context.Context, id string) (*Principal, error) {
	c, err := d.Repo.FindCompanyByID(ctx, id)
	return companyPrincipal(c, err)
}

func companyPrincipal(c *models.Company, err error) (*Principal, error) {
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return &Principal{ID: c.ID, Email: c.Email, PasswordHash: c.PasswordHash}, nil
}
