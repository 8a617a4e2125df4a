// Package auth mints and verifies the HS256 bearer tokens that carry a user
// id. Tokens deliberately carry no expiry: every request re-checks the
// subject against the users table, so deleting the account is the revocation
// mechanism.
package auth

import (
	"errors"

	"github.com/chanvault/chanvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered claim set with the bound user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken signs a token binding userID. No ExpiresAt claim is set.
func GenerateToken(userID string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the signature and returns the embedded user id.
// Malformed, unsigned, or tampered input yields common.ErrInvalidToken —
// never a panic.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
