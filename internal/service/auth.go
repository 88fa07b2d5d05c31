package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sociopedia/internal/cache"
	"sociopedia/internal/config"
	"sociopedia/internal/model"
)

// tokenClaims is the JWT payload. user_id is the hex ObjectID of the user.
type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies credentials. Verification is stateless
// unless a revocation list is configured.
type AuthService struct {
	secret  []byte
	maxAge  time.Duration
	revoked cache.RevocationList
	now     func() time.Time
}

// NewAuthService builds the token service. revoked may be nil, in which
// case logout cannot invalidate a credential before it expires.
func NewAuthService(cfg *config.Config, revoked cache.RevocationList) *AuthService {
	return &AuthService{
		secret:  []byte(cfg.JWTSecret),
		maxAge:  time.Duration(cfg.AccessTokenMaxAge) * time.Second,
		revoked: revoked,
		now:     time.Now,
	}
}

// ExpiresIn is the credential lifetime in seconds.
func (s *AuthService) ExpiresIn() int {
	return int(s.maxAge / time.Second)
}

// Issue signs a credential for userID.
func (s *AuthService) Issue(userID string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and revocation and returns the claims.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*model.Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, model.ErrTokenInvalid
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, model.ErrTokenRevoked
		}
	}

	return &model.Claims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// Revoke blocks the credential described by claims until it expires.
func (s *AuthService) Revoke(ctx context.Context, claims *model.Claims) error {
	if s.revoked == nil {
		log.Printf("[AuthService] Revocation list not configured, token %s stays valid until expiry", claims.TokenID)
		return nil
	}
	ttl := time.Unix(claims.ExpiresAt, 0).Sub(s.now())
	return s.revoked.Revoke(ctx, claims.TokenID, ttl)
}
