package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:      42,
		Name:    "Ada",
		Surname: "Lovelace",
		Nick:    "ada",
		Email:   "ada@example.com",
		Role:    models.RoleUser,
		Image:   "ada.png",
	}
}

func TestCredentialService_PasswordRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewCredentialService(testConfig(), nil)
	hash, err := svc.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, svc.ComparePassword(hash, "correct horse"))
	assert.False(t, svc.ComparePassword(hash, "battery staple"))
}

func TestCredentialService_IssueAndParse(t *testing.T) {
	t.Parallel()

	svc := NewCredentialService(testConfig(), nil)
	token, err := svc.IssueToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ParseToken(context.Background(), token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "ada", claims.Nick)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestCredentialService_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	svc := NewCredentialService(cfg, nil)
	token, err := svc.IssueToken(testUser())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "a-completely-different-signing-secret-000"
	forged, err := NewCredentialService(otherCfg, nil).IssueToken(testUser())
	require.NoError(t, err)

	expiredSvc := NewCredentialService(cfg, nil)
	expiredSvc.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
	expired, err := expiredSvc.IssueToken(testUser())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "42"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"garbage", "not.a.token", "Invalid token"},
		{"empty", "", "Invalid token"},
		{"tampered", tamperSignature(token), "Invalid token"},
		{"wrong secret", forged, "Invalid token"},
		{"expired", expired, "Token has expired"},
		{"alg none", noneToken, "Invalid token"},
		{"non-numeric subject", badSubject, "Invalid user ID in token"},
		{"wrong issuer", wrongIssuer, "Invalid token"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ParseToken(context.Background(), tc.token)
			assertAppErrorCode(t, err, models.CodeUnauthorized)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

// tamperSignature flips the first signature character, which always changes
// the decoded bytes.
func tamperSignature(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestCredentialService_MissingSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := NewCredentialService(cfg, nil).IssueToken(testUser())
	assertAppErrorCode(t, err, models.CodeInternal)
}

func TestCredentialService_Revocation(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	svc := NewCredentialService(testConfig(), cache.NewTokenBlacklist(client))
	ctx := context.Background()

	token, err := svc.IssueToken(testUser())
	require.NoError(t, err)
	claims, err := svc.ParseToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))
	assert.True(t, mr.Exists("blacklist:"+claims.ID))

	_, err = svc.ParseToken(ctx, token)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
	assert.True(t, strings.Contains(err.Error(), "revoked"))

	other, err := svc.IssueToken(testUser())
	require.NoError(t, err)
	_, err = svc.ParseToken(ctx, other)
	assert.NoError(t, err)
}

func TestCredentialService_RevocationStoreDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	svc := NewCredentialService(testConfig(), cache.NewTokenBlacklist(client))
	token, err := svc.IssueToken(testUser())
	require.NoError(t, err)

	mr.Close()

	_, err = svc.ParseToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestCredentialService_RevokeWithoutStore(t *testing.T) {
	t.Parallel()

	svc := NewCredentialService(testConfig(), nil)
	token, err := svc.IssueToken(testUser())
	require.NoError(t, err)
	claims, err := svc.ParseToken(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), claims))
	_, err = svc.ParseToken(context.Background(), token)
	assert.NoError(t, err)
}
