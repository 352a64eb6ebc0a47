package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/corebank/banking-api/internal/apperrors"
	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/corebank/banking-api/internal/core/services"
	"github.com/corebank/banking-api/internal/dto"
	"github.com/corebank/banking-api/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-auth-tests"

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	password := "correct-horse-battery"
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "ada@example.com",
		PasswordHash: hash,
	}

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
		svc := services.NewAuthService(repo, testJWTSecret, time.Hour, "banking-api")

		resp, err := svc.Login(ctx, dto.LoginRequest{Email: user.Email, Password: password})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
		assert.Equal(t, user.UserID, resp.User.UserID)

		claims, err := utils.ParseAndValidateJWT(resp.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.UserID, claims.Subject)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
		svc := services.NewAuthService(repo, testJWTSecret, time.Hour, "banking-api")

		resp, err := svc.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "wrong"})

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Nil(t, resp)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()
		svc := services.NewAuthService(repo, testJWTSecret, time.Hour, "banking-api")

		_, err := svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: password})

		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}
