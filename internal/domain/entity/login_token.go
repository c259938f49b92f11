package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginToken represents a single-use magic-link token for passwordless
// sign-in
type LoginToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new token
func (t *LoginToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LoginToken model
func (LoginToken) TableName() string {
	return "login_tokens"
}

// IsExpired checks if the token has expired
func (t *LoginToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsValid checks if the token is valid (not expired and not used)
func (t *LoginToken) IsValid() bool {
	return !t.IsExpired() && !t.Used
}
