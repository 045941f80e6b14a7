package config

import (
	"os"
	"path/filepath"
)

const (
	tokenStorePathVar = "TOKEN_STORE_PATH"
	tokenStoreKeyVar  = "TOKEN_STORE_KEY"
)

type StorageConfig interface {
	GetTokenStorePath() string
	// GetTokenStoreKey returns the passphrase used to encrypt stored credentials, or "" for plaintext
	GetTokenStoreKey() string
}

type Storage struct {
	path string
}

var _ StorageConfig = (*Storage)(nil)

func (s *Storage) GetTokenStorePath() string {
	if s.path != "" {
		return s.path
	}
	if path := os.Getenv(tokenStorePathVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".go-auth-client", "credentials.json")
}

func (s *Storage) GetTokenStoreKey() string {
	return os.Getenv(tokenStoreKeyVar)
}
