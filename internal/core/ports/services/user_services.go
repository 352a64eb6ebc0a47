package services

import (
	"context"

	"github.com/corebank/banking-api/internal/core/domain"
	"github.com/corebank/banking-api/internal/dto"
)

// UserSvcFacade defines operations over users.
type UserSvcFacade interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
