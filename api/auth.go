package api

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the authenticated caller identity extracted from the identity
// provider's bearer token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (Claims, error)
}

var _ TokenValidator = &HS256Validator{}

// HS256Validator validates the identity provider's HS256-signed JWTs. The
// secret is resolved per request so that a misconfigured deployment fails
// the request that needed it rather than the process at startup.
type HS256Validator struct {
	secret func(ctx context.Context) (string, error)
}

func NewHS256Validator(secret func(ctx context.Context) (string, error)) *HS256Validator {
	return &HS256Validator{
		secret: secret,
	}
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (v *HS256Validator) Validate(ctx context.Context, token string) (Claims, error) {
	secret, err := v.secret(ctx)
	if err != nil || secret == "" {
		return Claims{}, fmt.Errorf("identity provider secret is not available: %w", err)
	}

	var claims jwtClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("failed to validate token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, fmt.Errorf("token subject %q is not a valid user ID", claims.Subject)
	}

	return Claims{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}
