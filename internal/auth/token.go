package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload embedded in an issued token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless signed identity tokens. Tokens
// are not persisted and cannot be revoked; a token stays valid for its full
// window regardless of later account state changes.
type TokenService interface {
	Issue(userID int64, username string) (string, error)
	Verify(token string) *Claims
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
// Callers must ensure the secret is non-empty before constructing; a missing
// secret is a startup configuration failure, not something to default.
func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *tokenService) Issue(userID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the claims embedded in the token, or nil if the token is
// malformed, carries a bad signature, or has expired. The reason is never
// surfaced; callers treat any nil uniformly as unauthenticated.
func (s *tokenService) Verify(tokenString string) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims
	}
	return nil
}
