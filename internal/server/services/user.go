// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login with salted keyed-hash
// password verification, and issues the signed identity tokens.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/server/auth"
	"github.com/dmitrijs2005/datingapp/internal/server/config"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
	"github.com/dmitrijs2005/datingapp/internal/server/repositories/repomanager"
)

// saltSize matches the HMAC-SHA512 block size; each account gets its own
// salt at registration and keeps it for life.
const saltSize = 128

// AuthResult is what both Register and Authenticate hand back to the HTTP
// layer: the canonical username and a signed token.
type AuthResult struct {
	UserName string
	Token    string
}

// UserService provides authentication-related operations:
//   - Register: create an account and log it in
//   - Authenticate: verify credentials and mint a token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates an account with a fresh random salt and the keyed hash of
// the password, then logs the new user in.
//
// The uniqueness check and the insert are not atomic; two concurrent
// registrations of the same name can both pass the check, in which case the
// unique index on LOWER(username) rejects the second insert and the
// repository reports the same ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	if exists {
		return nil, common.ErrDuplicateUsername
	}

	salt := common.GenerateRandByteArray(saltSize)

	user := &models.User{
		UserName:     username,
		PasswordHash: keyedHash(salt, password),
		PasswordSalt: salt,
		KnownAs:      username,
	}

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	token, err := s.generateToken(u)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{UserName: u.UserName, Token: token}, nil
}

// Authenticate verifies the password against the stored keyed hash and, on
// success, returns a fresh token. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	if !s.checkHash(user.PasswordHash, keyedHash(user.PasswordSalt, password)) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{UserName: user.UserName, Token: token}, nil
}

// --- helpers below ---

// keyedHash computes HMAC-SHA512 over the password with the per-account salt
// as the key.
func keyedHash(salt []byte, password string) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// checkHash compares the full digest length regardless of where the first
// mismatch is.
func (s *UserService) checkHash(stored, candidate []byte) bool {
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}

func (s *UserService) generateToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.KnownAs, s.jwtSecret, s.tokenValidityDuration)
}
