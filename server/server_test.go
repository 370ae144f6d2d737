package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	fakeaccountrepo "github.com/jrsteele09/go-blog-server/accounts/repofake"
	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/cdn"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/utils"
	"github.com/jrsteele09/go-blog-server/posts"
	fakepostrepo "github.com/jrsteele09/go-blog-server/posts/repofake"
	"github.com/jrsteele09/go-blog-server/provider"
	"github.com/jrsteele09/go-blog-server/server"
	"github.com/jrsteele09/go-blog-server/server/loginsession"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret      = "0123456789abcdef0123456789abcdef0123456789abcdef"
	testCookieName  = "id"
	testProviderID  = int64(583231)
	testAccessToken = "gho_test"
)

type stubProvider struct {
	mu        sync.Mutex
	exchanges int
	id        int64
}

func (p *stubProvider) AuthorizeURL(state string) string {
	return "https://github.test/login/oauth/authorize?client_id=cid&state=" + url.QueryEscape(state)
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*provider.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exchanges++
	if code == "bad" {
		return nil, errors.Kind(errors.ErrTransportFailure, errors.New("token endpoint returned 401"))
	}
	return &provider.Token{AccessToken: testAccessToken, TokenType: "bearer"}, nil
}

func (p *stubProvider) Profile(_ context.Context, _ *provider.Token) (*provider.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &provider.Profile{ID: p.id, Login: utils.Ptr("octocat"), Name: utils.Ptr("The Octocat")}, nil
}

func (p *stubProvider) exchangeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchanges
}

// testClock is shared by the cookie codec and the session store so tests can age both.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testFixture struct {
	clock    *testClock
	accounts *fakeaccountrepo.FakeAccountRepo
	sessions *loginsession.InMemoryStore
	cookies  *server.CookieCodec
	provider *stubProvider
	objects  *cdn.MemoryStore
	server   *server.Server
}

func setupTestFixture(t *testing.T, cfg server.Config) *testFixture {
	t.Helper()
	clock := &testClock{now: time.Now()}
	f := &testFixture{
		clock:    clock,
		accounts: fakeaccountrepo.NewFakeAccountRepo(),
		sessions: loginsession.NewInMemoryStore(time.Hour).WithClock(clock.Now),
		provider: &stubProvider{id: testProviderID},
		objects:  cdn.NewMemoryStore(),
	}

	authService, err := auth.NewService(f.accounts, f.provider,
		auth.WithStateHasher(auth.NewBcryptStateHasher(bcrypt.MinCost)))
	require.NoError(t, err)
	postService, err := posts.NewService(fakepostrepo.NewFakePostRepo())
	require.NoError(t, err)
	cdnService, err := cdn.NewService(f.objects)
	require.NoError(t, err)
	cookies, err := server.NewCookieCodec(testCookieName, testSecret, time.Hour, false)
	require.NoError(t, err)
	f.cookies = cookies.WithClock(clock.Now)

	s, err := server.New(cfg, server.Deps{
		Sessions: f.sessions,
		Cookies:  f.cookies,
		Auth:     authService,
		Posts:    postService,
		CDN:      cdnService,
	})
	require.NoError(t, err)
	f.server = s
	return f
}

func defaultConfig() server.Config {
	return server.Config{
		Env: "TEST",
		Cors: config.Cors{
			Origins:        []string{"https://blog.example.com"},
			AllowedMethods: "GET, POST, PATCH",
			AllowedHeaders: "Content-Type",
		},
	}
}

func (f *testFixture) do(t *testing.T, method, target string, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", testCookieName)
	return nil
}

// beginLogin hits /request, optionally carrying an existing cookie, and returns the freshly
// issued cookie and the plaintext state.
func (f *testFixture) beginLogin(t *testing.T, cookie *http.Cookie) (*http.Cookie, string) {
	t.Helper()
	rec := f.do(t, http.MethodGet, server.RouteRequest, "", cookie)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return sessionCookie(t, rec), state
}

func (f *testFixture) login(t *testing.T) *http.Cookie {
	t.Helper()
	cookie, state := f.beginLogin(t, nil)
	rec := f.do(t, http.MethodGet, server.RouteCallback+"?state="+url.QueryEscape(state)+"&code=good", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Successfully authenticated.", rec.Body.String())
	return sessionCookie(t, rec)
}

func TestNew_Validation(t *testing.T) {
	_, err := server.New(defaultConfig(), server.Deps{})
	require.Error(t, err)

	postService, err := posts.NewService(fakepostrepo.NewFakePostRepo())
	require.NoError(t, err)
	_, err = server.New(defaultConfig(), server.Deps{Posts: postService})
	require.Error(t, err)

	resolver, err := auth.NewResolver(fakeaccountrepo.NewFakeAccountRepo())
	require.NoError(t, err)
	_, err = server.New(defaultConfig(), server.Deps{Posts: postService, Resolver: resolver})
	require.Error(t, err, "resolver without a session store")
}

func TestRoutesFollowDeps(t *testing.T) {
	cdnService, err := cdn.NewService(cdn.NewMemoryStore())
	require.NoError(t, err)
	s, err := server.New(defaultConfig(), server.Deps{CDN: cdnService})
	require.NoError(t, err)
	require.Equal(t, []string{"GET " + server.RouteCDNGet, "/"}, s.Routes())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, server.RouteRequest, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	f := setupTestFixture(t, defaultConfig())
	rec := f.do(t, http.MethodGet, server.RouteProtected, "", nil)
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestWWWRedirect(t *testing.T) {
	f := setupTestFixture(t, defaultConfig())
	req := httptest.NewRequest(http.MethodGet, "/posts/list/1/10", nil)
	req.Host = "www.blog.example.com"
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "https://blog.example.com/posts/list/1/10", rec.Header().Get("Location"))
}

func TestCors(t *testing.T) {
	f := setupTestFixture(t, defaultConfig())

	req := httptest.NewRequest(http.MethodOptions, "/posts/edit/abc", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://blog.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, "GET, POST, PATCH", rec.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/posts/list/1/10", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitOnLoginRoutes(t *testing.T) {
	cfg := defaultConfig()
	cfg.LoginRateLimit = 0.001
	cfg.LoginRateBurst = 2
	f := setupTestFixture(t, cfg)

	require.Equal(t, http.StatusTemporaryRedirect, f.do(t, http.MethodGet, server.RouteRequest, "", nil).Code)
	require.Equal(t, http.StatusTemporaryRedirect, f.do(t, http.MethodGet, server.RouteRequest, "", nil).Code)
	rec := f.do(t, http.MethodGet, server.RouteRequest, "", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other routes are not limited.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/posts/list/1/10", "", nil).Code)
}

// storedFields reads the ephemeral record the cookie points at.
func (f *testFixture) storedFields(t *testing.T, cookie *http.Cookie) map[string]string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	token, ok := f.cookies.Token(req)
	require.True(t, ok)
	return f.sessions.Fields(token)
}
