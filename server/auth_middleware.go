package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-blog-server/accounts"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/server/loginsession"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyAccount stores the resolved *accounts.Account
	ContextKeyAccount ContextKey = "account"
	// ContextKeySession stores the caller's *loginsession.Session
	ContextKeySession ContextKey = "session"
)

// AccountFromContext returns the account RequireAccount or OptionalAccount resolved.
func AccountFromContext(ctx context.Context) (*accounts.Account, bool) {
	account, ok := ctx.Value(ContextKeyAccount).(*accounts.Account)
	return account, ok && account != nil
}

func sessionFromContext(ctx context.Context) (*loginsession.Session, bool) {
	sess, ok := ctx.Value(ContextKeySession).(*loginsession.Session)
	return sess, ok && sess != nil
}

// RequireAccount resolves the caller's session to an account before anything else runs and
// rejects with 401 when it cannot.
func (s *Server) RequireAccount(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, sess, err := s.resolveAccount(r)
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyAccount, account)
		ctx = context.WithValue(ctx, ContextKeySession, sess)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAccount resolves the caller when it can and otherwise continues anonymously.
func (s *Server) OptionalAccount(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, sess, err := s.resolveAccount(r)
		if err != nil {
			if !isUnauthenticated(err) {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("session resolution failed, continuing anonymously")
			}
			next(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyAccount, account)
		ctx = context.WithValue(ctx, ContextKeySession, sess)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) resolveAccount(r *http.Request) (*accounts.Account, *loginsession.Session, error) {
	if s.resolver == nil {
		return nil, nil, errors.Wrapf(errors.ErrSessionAbsent, "[Server resolveAccount] no resolver")
	}
	sess, ok := s.browserSession(r)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrSessionAbsent, "[Server resolveAccount] no cookie")
	}
	account, err := s.resolver.Resolve(r.Context(), sess)
	if err != nil {
		return nil, nil, err
	}
	return account, sess, nil
}

func isUnauthenticated(err error) bool {
	return errors.Is(err, errors.ErrVerificationFailure) ||
		errors.Is(err, errors.ErrSessionAbsent) ||
		errors.Is(err, errors.ErrAccountNotFound)
}

// writeAuthError maps login and session errors to a status without leaking their text.
func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isUnauthenticated(err):
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("unauthenticated")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, errors.ErrInvalidInput):
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("bad login request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		log.Err(err).Str("path", r.URL.Path).Msg("login failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
