package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/utils"
)

const (
	minCookieSecretLength = 32
	sessionTokenLength    = 48
)

// sessionClaims is the signed payload of the browser cookie. sid addresses the ephemeral
// session record; nothing else about the login travels in the cookie.
type sessionClaims struct {
	SessionToken string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec issues and reads the HS256 signed cookie that carries the ephemeral session
// token. Every service sharing the secret can read cookies the login service issued.
type CookieCodec struct {
	name     string
	secret   []byte
	ttl      time.Duration
	secure   bool
	nowTime  func() time.Time
	newToken func() (string, error)
}

func NewCookieCodec(name, secret string, ttl time.Duration, secure bool) (*CookieCodec, error) {
	if name == "" {
		return nil, errors.New("[NewCookieCodec] cookie name is required")
	}
	if len(secret) < minCookieSecretLength {
		return nil, errors.New("[NewCookieCodec] secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("[NewCookieCodec] ttl must be positive")
	}
	return &CookieCodec{
		name:     name,
		secret:   []byte(secret),
		ttl:      ttl,
		secure:   secure,
		nowTime:  time.Now,
		newToken: func() (string, error) { return utils.RandomAlphanumeric(sessionTokenLength) },
	}, nil
}

// WithClock replaces the time source (primarily for testing)
func (c *CookieCodec) WithClock(now func() time.Time) *CookieCodec {
	c.nowTime = now
	return c
}

// Issue mints a new session token and sets it as a cookie on w.
func (c *CookieCodec) Issue(w http.ResponseWriter) (string, error) {
	token, err := c.newToken()
	if err != nil {
		return "", errors.Wrapf(err, "[CookieCodec Issue] token")
	}
	if err := c.Refresh(w, token); err != nil {
		return "", err
	}
	return token, nil
}

// Refresh re-signs token with a full ttl from now and sets it on w.
func (c *CookieCodec) Refresh(w http.ResponseWriter, token string) error {
	value, err := c.encode(token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl.Seconds()),
	})
	return nil
}

// Token returns the session token from r's cookie if it is present, correctly signed and
// unexpired.
func (c *CookieCodec) Token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	token, err := c.decode(cookie.Value)
	if err != nil {
		return "", false
	}
	return token, true
}

// Clear expires the cookie on the browser.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (c *CookieCodec) encode(token string) (string, error) {
	now := c.nowTime()
	claims := sessionClaims{
		SessionToken: token,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", errors.Wrapf(err, "[CookieCodec encode]")
	}
	return signed, nil
}

func (c *CookieCodec) decode(value string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(value, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowTime),
	)
	if err != nil {
		return "", errors.Wrapf(err, "[CookieCodec decode]")
	}
	if claims.SessionToken == "" {
		return "", errors.New("[CookieCodec decode] no session token")
	}
	return claims.SessionToken, nil
}
