// Package service holds the business logic between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"socialnet/internal/config"
	"socialnet/internal/models"
	"socialnet/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token issuer and audience.
const (
	TokenIssuer   = "socialnet-api"
	TokenAudience = "socialnet-client"
)

// Claims is the bearer token payload: the subject id plus a denormalized
// copy of the public profile at issue time.
type Claims struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Nick    string `json:"nick"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Image   string `json:"image"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// Revoker persists revoked token ids.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// CredentialService hashes passwords and issues and validates bearer tokens.
type CredentialService struct {
	secret  []byte
	ttl     time.Duration
	cost    int
	revoker Revoker
	now     func() time.Time
}

// NewCredentialService binds the service to the configured secret. revoker may be nil.
func NewCredentialService(cfg *config.Config, revoker Revoker) *CredentialService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{
		secret:  []byte(cfg.JWTSecret),
		ttl:     cfg.TokenTTL(),
		cost:    cost,
		revoker: revoker,
		now:     time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func (s *CredentialService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash.
func (s *CredentialService) ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs an HS256 token for user.
func (s *CredentialService) IssueToken(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", models.NewInternalError(errors.New("JWT secret not configured"))
	}

	now := s.now()
	claims := Claims{
		Name:    user.Name,
		Surname: user.Surname,
		Nick:    user.Nick,
		Email:   user.Email,
		Role:    user.Role,
		Image:   user.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// ParseToken validates signature, expiry, issuer, audience, subject and
// revocation. Every rejection is an UNAUTHORIZED AppError.
func (s *CredentialService) ParseToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.NewUnauthorizedError("Token has expired")
		}
		return nil, models.NewUnauthorizedError("Invalid token")
	}

	if _, err := claims.UserID(); err != nil {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Revocation store outages fail open, like the rate limiter.
			observability.Logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
		} else if revoked {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (s *CredentialService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoker == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return models.NewInternalError(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}
