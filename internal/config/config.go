package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AuthenticateConfig is everything the login service reads from the environment.
type AuthenticateConfig struct {
	EnvVars
	OAuth
	Security
	Stores
	Cors
}

// BlogConfig is everything the content service reads from the environment.
// It shares the session cookie secret and both stores with the login service.
type BlogConfig struct {
	EnvVars
	Security
	Stores
	Cors
}

// CDNConfig is everything the file delivery service reads from the environment.
type CDNConfig struct {
	EnvVars
	ObjectStorage
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadAuthenticate parses an AuthenticateConfig from the environment.
func LoadAuthenticate() (AuthenticateConfig, error) {
	var c AuthenticateConfig
	err := ParseEnv(&c)
	return c, err
}

// LoadBlog parses a BlogConfig from the environment.
func LoadBlog() (BlogConfig, error) {
	var c BlogConfig
	err := ParseEnv(&c)
	return c, err
}

// LoadCDN parses a CDNConfig from the environment.
func LoadCDN() (CDNConfig, error) {
	var c CDNConfig
	err := ParseEnv(&c)
	return c, err
}
