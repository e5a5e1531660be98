package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/repository"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	users := repository.NewUserRepository([]domain.User{
		{ID: "1", Email: "tenant@example.com", Role: domain.RoleTenant},
		{ID: "3", Email: "manager@example.com", Role: domain.RoleManager, PasswordHash: hash},
	})
	tokens := auth.NewTokenManager("secret", time.Hour)
	svc := NewAuthService(users, tokens, nil)

	demo, err := svc.Login("Tenant@Example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, "1", demo.User.ID)
	claims, err := tokens.ParseToken(demo.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "1", Role: domain.RoleTenant}, claims.Actor())

	_, err = svc.Login("manager@example.com", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	ok, err := svc.Login("manager@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, ok.User.Role)

	_, err = svc.Login("nobody@example.com", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = svc.Login("  ", "")
	assert.True(t, apperrors.IsValidation(err))
}
