package config

import (
	"net"
	"strings"
)

const devEnv = "DEV"

// EnvVars holds the process level settings shared by every service.
type EnvVars struct {
	Port     string `env:"PORT"`
	BindHost string `env:"BIND_HOST" envDefault:"127.0.0.1"`
	AppName  string `env:"APP_NAME"`
	Env      string `env:"ENV" envDefault:"DEV"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// GetAddr returns the listen address, falling back to defaultPort when PORT is unset.
func (e EnvVars) GetAddr(defaultPort string) string {
	port := strings.TrimPrefix(e.Port, ":")
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(e.BindHost, port)
}

// GetAppName returns APP_NAME or fallback when it is not set.
func (e EnvVars) GetAppName(fallback string) string {
	if e.AppName == "" {
		return fallback
	}
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return devEnv
	}
	return e.Env
}

// IsDev reports whether the service runs in the development environment.
func (e EnvVars) IsDev() bool {
	return strings.EqualFold(e.GetEnv(), devEnv)
}
