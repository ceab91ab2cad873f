package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dinobux/storebot/internal/auth"
	"github.com/dinobux/storebot/internal/domain"
	"github.com/dinobux/storebot/internal/repository"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

// AuthService authenticates staff accounts for the HTTP API.
type AuthService struct {
	staff  repository.StaffRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// LoginResult carries a signed token and the account it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Staff     *domain.StaffAccount
}

// NewAuthService constructs the service.
func NewAuthService(staff repository.StaffRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{staff: staff, tokens: tokens, logger: logger}
}

// Login verifies credentials and issues a token. Unknown usernames and
// wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	account, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("staff login", zap.String("staff_id", account.ID), zap.String("role", string(account.Role)))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Staff: account}, nil
}
