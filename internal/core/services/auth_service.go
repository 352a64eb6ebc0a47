package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebank/banking-api/internal/apperrors"
	portsrepo "github.com/corebank/banking-api/internal/core/ports/repositories"
	portssvc "github.com/corebank/banking-api/internal/core/ports/services"
	"github.com/corebank/banking-api/internal/dto"
	"github.com/corebank/banking-api/internal/middleware"
	"github.com/corebank/banking-api/internal/utils"
)

// ErrInvalidCredentials is returned when email/password verification fails.
// The message does not reveal which of the two was wrong.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)

// authService verifies credentials and issues JWTs. The transaction engine
// never calls this; it trusts the user id the API layer hands it.
type authService struct {
	userRepo    portsrepo.UserReader
	jwtSecret   string
	jwtExpiry   time.Duration
	jwtIssuer   string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo portsrepo.UserReader, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the credentials and returns a signed token response.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("login rejected", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("login succeeded", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        dto.ToUserResponse(user),
	}, nil
}
