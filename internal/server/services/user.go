// Package services contains server-side business logic. This file implements
// UserService, which handles signup and login and issues JWT access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - SignUp: create users with salted password hashes
// - Login: verify credentials and mint an access token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// SignUp generates a fresh salt, hashes the password, and persists the user.
// A duplicate username yields common.ErrorConflict; any other persistence
// failure yields common.ErrorInternal.
func (s *UserService) SignUp(ctx context.Context, username string, password string) error {
	salt := cryptox.GenerateSalt()
	hash := cryptox.HashPassword([]byte(password), salt)

	user := &models.User{Username: username, Salt: salt, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return common.ErrorConflict
		}
		return common.ErrorInternal
	}
	return nil
}

// Login validates the credentials and, on success, returns a signed access
// token carrying the user id. Unknown username and wrong password both yield
// common.ErrorUnauthorized; a hash is computed either way so the two cases
// stay indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username string, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing cost as the known-user path
			cryptox.HashPassword([]byte(password), cryptox.GenerateSalt())
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
