package repository

import (
	"context"
	"errors"

	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
	domainRepo "github.com/thaisrestaurant/orderdesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

// loginTokenRepository implements the LoginTokenRepository interface
type loginTokenRepository struct {
	db *gorm.DB
}

// NewLoginTokenRepository creates a new magic-link token repository
func NewLoginTokenRepository(db *gorm.DB) domainRepo.LoginTokenRepository {
	return &loginTokenRepository{db: db}
}

// Create stores a new magic-link token
func (r *loginTokenRepository) Create(ctx context.Context, token *entity.LoginToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByToken retrieves a token by its value
func (r *loginTokenRepository) GetByToken(ctx context.Context, token string) (*entity.LoginToken, error) {
	var loginToken entity.LoginToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&loginToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &loginToken, err
}

// MarkAsUsed marks a token as used
func (r *loginTokenRepository) MarkAsUsed(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&entity.LoginToken{}).
		Where("token = ?", token).
		Update("used", true).Error
}

// DeleteByEmail deletes all tokens for a specific email
func (r *loginTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&entity.LoginToken{}).Error
}
