package service

import (
	"career_bot_backend/internal/config"
	"career_bot_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthConfig(t *testing.T, login, password string) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		Admin: config.AdminConfig{Login: login, PasswordHash: string(hash)},
		JWT:   config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
	}
}

func TestLoginIssuesToken(t *testing.T) {
	cfg := newAuthConfig(t, "admin", "s3cret")
	auth := NewAuthService(cfg)

	token, err := auth.Login("admin", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Login)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := NewAuthService(newAuthConfig(t, "admin", "s3cret"))

	_, err := auth.Login("admin", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownLogin(t *testing.T) {
	auth := NewAuthService(newAuthConfig(t, "admin", "s3cret"))

	_, err := auth.Login("root", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
