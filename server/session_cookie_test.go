package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func requestWith(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestNewCookieCodec_Validation(t *testing.T) {
	_, err := NewCookieCodec("", testSecret, time.Hour, false)
	require.Error(t, err)
	_, err = NewCookieCodec("id", "short", time.Hour, false)
	require.Error(t, err)
	_, err = NewCookieCodec("id", testSecret, 0, false)
	require.Error(t, err)
}

func TestCookieCodec_IssueAndRead(t *testing.T) {
	c, err := NewCookieCodec("id", testSecret, time.Hour, true)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	token, err := c.Issue(rec)
	require.NoError(t, err)
	require.Len(t, token, sessionTokenLength)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, 3600, cookies[0].MaxAge)
	require.NotContains(t, cookies[0].Value, token, "token travels inside the signed payload")

	got, ok := c.Token(requestWith(cookies[0]))
	require.True(t, ok)
	require.Equal(t, token, got)
}

func TestCookieCodec_Rejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, err := NewCookieCodec("id", testSecret, time.Hour, false)
	require.NoError(t, err)
	c.WithClock(func() time.Time { return now })

	value, err := c.encode("tok")
	require.NoError(t, err)

	other, err := NewCookieCodec("id", testSecret+"-other", time.Hour, false)
	require.NoError(t, err)
	foreign, err := other.encode("tok")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{SessionToken: "tok"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	empty, err := c.encode("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"wrong name", &http.Cookie{Name: "other", Value: value}},
		{"other secret", &http.Cookie{Name: "id", Value: foreign}},
		{"alg none", &http.Cookie{Name: "id", Value: none}},
		{"empty token", &http.Cookie{Name: "id", Value: empty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Token(requestWith(tt.cookie))
			require.False(t, ok)
		})
	}

	_, ok := c.Token(requestWith(&http.Cookie{Name: "id", Value: value}))
	require.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = c.Token(requestWith(&http.Cookie{Name: "id", Value: value}))
	require.False(t, ok, "expired")
}

func TestCookieCodec_Clear(t *testing.T) {
	c, err := NewCookieCodec("id", testSecret, time.Hour, false)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	c.Clear(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "id", cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestCookieCodec_Refresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, err := NewCookieCodec("id", testSecret, time.Hour, false)
	require.NoError(t, err)
	c.WithClock(func() time.Time { return now })

	rec := httptest.NewRecorder()
	token, err := c.Issue(rec)
	require.NoError(t, err)
	issued := rec.Result().Cookies()[0]

	now = now.Add(50 * time.Minute)
	rec = httptest.NewRecorder()
	require.NoError(t, c.Refresh(rec, token))
	refreshed := rec.Result().Cookies()[0]
	require.Equal(t, 3600, refreshed.MaxAge)

	now = now.Add(20 * time.Minute)
	_, ok := c.Token(requestWith(issued))
	require.False(t, ok)
	got, ok := c.Token(requestWith(refreshed))
	require.True(t, ok)
	require.Equal(t, token, got, "refresh keeps the session token")
}
