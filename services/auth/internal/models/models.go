package models

import "time"

// RefreshToken is one live session. A principal may hold many at once.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"index;not null"              json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null"              json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record is past its expiry at now.
func (t RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

type Company struct {
	ID           string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string `gorm:"not null"                    json:"name"`
	Email        string `gorm:"uniqueIndex;not null"        json:"email"`
	PasswordHash string `gorm:"not null"                    json:"-"`
}

type Post struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyID string `gorm:"index;not null"              json:"company_id"`
	Title     string `gorm:"not null"                    json:"title"`
}

// All lists the tables this service migrates.
func All() []any {
	return []any{&RefreshToken{}, &Company{}, &Post{}}
}
