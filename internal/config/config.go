// Package config resolves the invocation environment supplied by the
// surrounding job framework: the API base address and the credential secrets.
// Resolution order for the address is flag > environment > config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/felixgeelhaar/groupctl/internal/errors"
)

// Configuration sources surfaced in error messages
const (
	AddrFlag = "--addr"

	EnvAddr      = "GROUPCTL_ADDR"
	EnvLoginName = "GROUPCTL_LOGIN_NAME"
	EnvPassword  = "GROUPCTL_PASSWORD"
)

// File is the optional on-disk configuration
type File struct {
	// Addr is the base address of the IAM API, e.g. https://boundary.example.com:9200
	Addr string `yaml:"addr"`
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".groupctl", "config.yaml")
}

// LoadFile reads and parses a YAML config file.
// A missing file is not an error; a malformed one is.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &f, nil
}

// ResolveAddr determines the API base address from, in order, the --addr
// flag value, the GROUPCTL_ADDR environment variable, and the config file.
// Absence from all three sources is a fatal configuration error.
func ResolveAddr(flagValue string) (string, error) {
	if addr := normalizeAddr(flagValue); addr != "" {
		return addr, nil
	}

	if addr := normalizeAddr(os.Getenv(EnvAddr)); addr != "" {
		return addr, nil
	}

	f, err := LoadFile(DefaultPath())
	if err != nil {
		return "", err
	}
	if f != nil {
		if addr := normalizeAddr(f.Addr); addr != "" {
			return addr, nil
		}
	}

	return "", apperrors.NewMissingAddressError(AddrFlag, EnvAddr)
}

func normalizeAddr(addr string) string {
	return strings.TrimRight(strings.TrimSpace(addr), "/")
}

// Credentials holds the login secrets used once per invocation to obtain a
// session token. Never logged, never embedded in error messages.
type Credentials struct {
	LoginName string
	Password  string
}

// LoadCredentials reads both credential secrets from the environment.
// If either is missing, the error names both so one failed run reveals the
// complete set to configure.
func LoadCredentials() (Credentials, error) {
	loginName := os.Getenv(EnvLoginName)
	password := os.Getenv(EnvPassword)

	if loginName == "" || password == "" {
		return Credentials{}, apperrors.NewMissingSecretsError(EnvLoginName, EnvPassword)
	}

	return Credentials{LoginName: loginName, Password: password}, nil
}
