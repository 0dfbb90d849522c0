package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "internwatch"
)

var ErrNotFound = errors.New("secret not found in keychain")

func TelegramAccount(chatID string) string {
	return fmt.Sprintf("internwatch:telegram:%s", strings.TrimSpace(chatID))
}

func IMAPAccount(username, host string) string {
	return fmt.Sprintf("internwatch:imap:%s@%s", username, host)
}

func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	v, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// Fill returns current when it is already set, otherwise the keychain value
// for account. A missing keychain entry is not an error.
func Fill(current, account string) (string, error) {
	if strings.TrimSpace(current) != "" {
		return current, nil
	}
	v, err := Get(account)
	if errors.Is(err, ErrNotFound) {
		return current, nil
	}
	return v, err
}
