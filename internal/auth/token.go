package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/pkg/cerr"
)

type Claims struct {
	UserID     string `json:"uid"`
	SystemRole string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the bearer tokens used by the HTTP API.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(env *config.AuthEnv) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(env.JWTSecret),
		ttl:    env.TokenTTL,
	}
}

func (i *TokenIssuer) Issue(userID, systemRole string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)
	claims := &Claims{
		UserID:     userID,
		SystemRole: systemRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "planwise",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, cerr.NewError(cerr.Internal, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}

func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid token", err)
	}
	if claims.UserID == "" {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid token", nil)
	}
	return claims, nil
}
