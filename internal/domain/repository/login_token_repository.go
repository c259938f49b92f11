package repository

import (
	"context"

	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
)

// LoginTokenRepository defines the interface for magic-link token operations
type LoginTokenRepository interface {
	Create(ctx context.Context, token *entity.LoginToken) error
	GetByToken(ctx context.Context, token string) (*entity.LoginToken, error)
	MarkAsUsed(ctx context.Context, token string) error
	DeleteByEmail(ctx context.Context, email string) error
}
