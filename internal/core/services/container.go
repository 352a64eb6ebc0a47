package services

import (
	"time"

	portsrepo "github.com/corebank/banking-api/internal/core/ports/repositories"
	portssvc "github.com/corebank/banking-api/internal/core/ports/services"
)

// AuthConfig holds what the auth service needs from application config.
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string
}

// NewServiceContainer wires all services over the given repositories.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, authCfg AuthConfig) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:     NewAccountService(repos.AccountRepo, repos.UserRepo),
		Transaction: NewTransactionService(repos.TransactionRepo, repos.AccountRepo),
		User:        NewUserService(repos.UserRepo),
		Auth:        NewAuthService(repos.UserRepo, authCfg.JWTSecret, authCfg.JWTExpiry, authCfg.JWTIssuer),
	}
}
