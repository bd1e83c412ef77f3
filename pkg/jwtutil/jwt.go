package jwtutil

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/BhanuBurman/career-page-builder/pkg/config"
)

// Verification failure modes. ErrMissingSecret is an operator problem and
// maps to a server error; the other two mean the caller must re-authenticate.
var (
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
	ErrTokenExpired  = errors.New("token has expired")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims represents the claim set carried by a Supabase-issued access token.
// The subject claim is the recruiter's account id and is treated as an
// opaque string everywhere downstream.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates inbound bearer tokens against the shared secret.
// It never mints or refreshes tokens.
type Verifier struct {
	config *config.JWTConfig
}

// NewVerifier creates a verifier with the given configuration
func NewVerifier(cfg *config.JWTConfig) *Verifier {
	return &Verifier{config: cfg}
}

// ValidateToken validates and parses the bearer token
func (v *Verifier) ValidateToken(tokenString string) (*Claims, error) {
	if v.config == nil || v.config.SigningKey == "" {
		return nil, ErrMissingSecret
	}

	signingKey := v.config.SigningKey

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(signingKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Supabase stamps its access tokens with a fixed audience
	if !claims.VerifyAudience(v.config.Audience, true) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}

	return claims, nil
}
