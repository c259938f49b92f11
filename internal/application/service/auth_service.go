package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/repository"
	"github.com/thaisrestaurant/orderdesk-api/pkg/apperror"
	"github.com/thaisrestaurant/orderdesk-api/pkg/oauth"
	"github.com/thaisrestaurant/orderdesk-api/pkg/utils"
)

// magicLinkTTL is how long a passwordless sign-in link stays redeemable
const magicLinkTTL = 15 * time.Minute

// MagicLinkMailer delivers the single-use sign-in link. *email.EmailService
// is the production implementation.
type MagicLinkMailer interface {
	SendMagicLinkEmail(toEmail, token string) error
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo     repository.UserRepository
	tokenRepo    repository.LoginTokenRepository
	jwtManager   *utils.JWTManager
	emailService MagicLinkMailer
	googleOAuth  *oauth.GoogleOAuthService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.LoginTokenRepository,
	jwtManager *utils.JWTManager,
	emailService MagicLinkMailer,
	googleOAuth *oauth.GoogleOAuthService,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtManager:   jwtManager,
		emailService: emailService,
		googleOAuth:  googleOAuth,
	}
}

// LoginInput represents the password login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user by email and password and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new staff account with a password
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// MagicLinkInput represents the passwordless sign-in request input
type MagicLinkInput struct {
	Email string
}

// RequestMagicLink issues a single-use sign-in token and mails the link.
// It reports success regardless of whether an account exists, so callers
// cannot probe for registered emails.
func (s *AuthService) RequestMagicLink(ctx context.Context, input *MagicLinkInput) error {
	// Invalidate earlier links for this address
	_ = s.tokenRepo.DeleteByEmail(ctx, input.Email)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	token := hex.EncodeToString(tokenBytes)

	loginToken := &entity.LoginToken{
		Email:     input.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(magicLinkTTL),
		Used:      false,
	}

	if err := s.tokenRepo.Create(ctx, loginToken); err != nil {
		return err
	}

	if err := s.emailService.SendMagicLinkEmail(input.Email, token); err != nil {
		log.Printf("Warning: failed to send magic link to %s: %v", input.Email, err)
		return err
	}

	return nil
}

// VerifyMagicLinkInput represents the magic-link redemption input
type VerifyMagicLinkInput struct {
	Email string
	Token string
}

// VerifyMagicLink redeems a magic-link token and signs the user in,
// provisioning the account on first use
func (s *AuthService) VerifyMagicLink(ctx context.Context, input *VerifyMagicLinkInput) (*LoginOutput, error) {
	loginToken, err := s.tokenRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if loginToken == nil || loginToken.Email != input.Email || !loginToken.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid or expired sign-in link")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// First sign-in: provision the account, passwordless
		user = &entity.User{
			Email:    input.Email,
			Provider: "magic-link",
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.tokenRepo.MarkAsUsed(ctx, input.Token); err != nil {
		return nil, err
	}
	_ = s.tokenRepo.DeleteByEmail(ctx, input.Email)

	return s.issueTokens(ctx, user)
}

// LoginWithGoogle signs in (or provisions) a user from a verified Google
// profile
func (s *AuthService) LoginWithGoogle(ctx context.Context, info *oauth.GoogleUserInfo) (*LoginOutput, error) {
	if !info.VerifiedEmail {
		return nil, apperror.NewBadRequestError("Google account email is not verified")
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		providerID := info.ID
		user = &entity.User{
			Name:       info.Name,
			Email:      info.Email,
			Provider:   "google",
			ProviderID: &providerID,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if user.ProviderID == nil {
		// Link the Google identity to the existing account
		providerID := info.ID
		user.ProviderID = &providerID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(ctx, user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password. Accounts provisioned through
// a magic link or Google may set an initial password without a current one.
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if user.HasPassword() && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return errors.New("current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// issueTokens generates a JWT pair and stamps the login time
func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("Warning: failed to record login time for %s: %v", user.Email, err)
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GoogleOAuth exposes the configured Google OAuth service to the handler
func (s *AuthService) GoogleOAuth() *oauth.GoogleOAuthService {
	return s.googleOAuth
}
