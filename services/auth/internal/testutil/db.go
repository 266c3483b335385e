// Package testutil holds fixtures shared by the auth service tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/internhub/pkg/hash"
	"github.com/Skotchmaster/internhub/services/auth/internal/models"
)

// NewDB opens a private in-memory sqlite database with every auth table
// migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedCompany inserts a company with the given password and returns it.
func SeedCompany(t *testing.T, db *gorm.DB, email, password string) *models.Company {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	c := &models.Company{
		ID:           uuid.NewString(),
		Name:         "Acme",
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := db.WithContext(context.Background()).Create(c).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return c
}

func CountRefresh(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count refresh tokens: %v", err)
	}
	return n
}
