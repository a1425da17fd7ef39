package service

import (
	"career_bot_backend/internal/config"
	"career_bot_backend/internal/util"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the operator of the admin API. Credentials come
// from configuration: a login and a bcrypt hash of the password.
type AuthService struct {
	Config *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{Config: cfg}
}

// Login validates the operator credentials and issues a JWT.
func (s *AuthService) Login(login, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(login), []byte(s.Config.Admin.Login)) != 1 {
		return "", util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.Config.Admin.PasswordHash), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(login, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
}
