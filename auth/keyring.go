// Package auth stores the bgm.tv access token in the system keyring so it
// does not have to live in the config file.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	service = "bgmtv"
	user    = "api-token"
)

// ErrNoToken is returned when the keyring holds no token
var ErrNoToken = errors.New("no token stored in keyring")

// SetToken stores the access token, replacing any previous one
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	if err := keyring.Set(service, user, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// GetToken returns the stored access token
func GetToken() (string, error) {
	token, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored access token
func DeleteToken() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoToken
	}
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
