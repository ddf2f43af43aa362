// Package auth issues and verifies the signed identity tokens handed out at
// login. Tokens are self-contained: the HTTP layer can verify them with the
// shared secret alone, without a database lookup. There is no revocation;
// a token stays valid until it expires.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/datingapp/internal/common"
)

// Claims binds a stable user identifier and a display name to the standard
// registered claims (of which only the expiry is used).
type Claims struct {
	jwt.RegisteredClaims
	UserID string
	Name   string
}

// GenerateToken mints an HS256-signed token for the given identity,
// valid for validityDuration from now.
func GenerateToken(userID, name string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Name:   name,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates the signature and expiry of tokenString and returns
// its claims. Expired tokens yield common.ErrTokenExpired; any other
// verification failure yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
