package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Security struct {
	// SecretKey signs the session cookie. Every service reading the cookie must share it.
	SecretKey     string        `env:"BLOG_SECRET_KEY,required"`
	CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"id"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	StateLength     int `env:"STATE_LENGTH" envDefault:"30"`
	SessionIDLength int `env:"SESSION_ID_LENGTH" envDefault:"64"`
	StateHashCost   int `env:"STATE_HASH_COST"`

	// Token bucket applied per client IP on the login routes. Zero disables it.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" envDefault:"1"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" envDefault:"10"`
}

func (s Security) GetStateHashCost() int {
	if s.StateHashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.StateHashCost
}
