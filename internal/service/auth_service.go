package service

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/repository"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// AuthService resolves login credentials to a profile and issues tokens.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokenMgr: tokens, logger: logger}
}

// Login looks the profile up by email. Profiles without a password hash are
// demo accounts and accept any password.
func (s *AuthService) Login(email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return LoginResult{}, apperrors.NewValidationError("email is required", nil)
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return LoginResult{}, apperrors.NewInternalError(err)
	}
	if user.PasswordHash != "" {
		if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
			return LoginResult{}, apperrors.NewUnauthorized("invalid credentials")
		}
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return LoginResult{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}
