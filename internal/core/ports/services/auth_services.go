package services

import (
	"context"

	"github.com/corebank/banking-api/internal/dto"
)

// AuthSvcFacade issues tokens for authenticated users. The transaction
// engine never depends on this; it trusts the user id handed to it.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed token response.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
