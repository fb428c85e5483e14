package service

import (
	"context"
	"testing"

	"stoktakip/internal/config"
	"stoktakip/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		AdminUser:          "admin",
		AdminPasswordHash:  string(hash),
	}
}

func TestAuthLoginAndValidate(t *testing.T) {
	svc := NewAuthService(newAuthConfig(t))

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newAuthConfig(t))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "root", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthValidateRejectsTamperedToken(t *testing.T) {
	svc := NewAuthService(newAuthConfig(t))

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "different-secret"})
	_, err = other.ValidateToken(resp.Token)
	assert.Error(t, err)
}
