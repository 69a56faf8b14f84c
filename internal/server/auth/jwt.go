// Package auth adapts the identity provider: it verifies the HS256 tokens
// the provider issues and turns them into a Principal.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the profile fields the
// provider puts in every token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string
	FirstName string `json:",omitempty"`
	LastName  string `json:",omitempty"`
	Username  string `json:",omitempty"`
	Email     string `json:",omitempty"`
	Image     string `json:",omitempty"`
}

// GenerateToken signs a token for p. The server itself only verifies
// tokens; minting is used by cmd/token and tests.
func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		Email:     p.Email,
		Image:     p.Image,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns the principal it names.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields an error wrapping common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, errors.Join(common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Principal{
		UserID:    claims.UserID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Username:  claims.Username,
		Email:     claims.Email,
		Image:     claims.Image,
	}, nil
}

// GetUserIDFromToken is ParseToken for callers that only need the id.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	p, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}
