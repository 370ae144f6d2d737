package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/cdn"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/jrsteele09/go-blog-server/server/loginsession"
	"github.com/rs/zerolog/log"
)

// Config is the HTTP level configuration shared by all three services.
type Config struct {
	Env            string // Environment (e.g., "DEV", "PROD")
	Cors           config.Cors
	LoginRateLimit float64 // Requests per second per client IP on the login routes, 0 disables
	LoginRateBurst int
}

// Deps are the collaborators a Server routes to. Route groups are registered only for the
// collaborators present, so each binary wires just what it serves.
type Deps struct {
	Sessions loginsession.Store // Ephemeral, cookie addressed session store
	Cookies  *CookieCodec
	Auth     *auth.Service  // Login routes
	Resolver *auth.Resolver // Protected routes; defaults to Auth's resolver
	Posts    *posts.Service // Blog routes
	CDN      *cdn.Service   // File delivery route
}

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   Config
	sessions loginsession.Store
	cookies  *CookieCodec
	auth     *auth.Service
	resolver *auth.Resolver
	posts    *posts.Service
	cdn      *cdn.Service
	limiter  *ipRateLimiter
}

func New(cfg Config, deps Deps) (*Server, error) {
	resolver := deps.Resolver
	if resolver == nil && deps.Auth != nil {
		resolver = deps.Auth.Resolver
	}
	if deps.Posts != nil && resolver == nil {
		return nil, errors.New("[Server New] blog routes need a session resolver")
	}
	if resolver != nil && (deps.Sessions == nil || deps.Cookies == nil) {
		return nil, errors.New("[Server New] session store and cookie codec are required")
	}
	if deps.Auth == nil && deps.Posts == nil && deps.CDN == nil {
		return nil, errors.New("[Server New] nothing to serve")
	}

	s := &Server{
		env:      cfg.Env,
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: deps.Sessions,
		cookies:  deps.Cookies,
		auth:     deps.Auth,
		resolver: resolver,
		posts:    deps.Posts,
		cdn:      deps.CDN,
		limiter:  newIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path := "", route
		if parts := strings.SplitN(route, " ", 2); len(parts) > 1 {
			method, path = parts[0], parts[1]
		}
		log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
	}
}

// browserSession returns the ephemeral session named by the request's cookie.
func (s *Server) browserSession(r *http.Request) (*loginsession.Session, bool) {
	if s.cookies == nil || s.sessions == nil {
		return nil, false
	}
	token, ok := s.cookies.Token(r)
	if !ok {
		return nil, false
	}
	return loginsession.New(s.sessions, token), true
}

// newBrowserSession issues a cookie addressing a fresh, empty session record.
func (s *Server) newBrowserSession(w http.ResponseWriter) (*loginsession.Session, error) {
	token, err := s.cookies.Issue(w)
	if err != nil {
		return nil, errors.Wrapf(err, "[Server newBrowserSession]")
	}
	return loginsession.New(s.sessions, token), nil
}
