package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("auth: empty password")

// HashPassword returns the bcrypt hash stored as ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword reports a nil error only when password matches hash.
func ComparePassword(hash, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if hash == "" {
		return errors.New("auth: no password hash configured")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
