package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// RequestLoginHandler starts a login: it stores the hashed state in a fresh session and
// redirects the browser to the provider. Any session the browser already holds is ended
// first, so a pending login never shares a record with a completed one.
func (s *Server) RequestLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if previous, ok := s.browserSession(r); ok {
			if err := s.auth.Logout(r.Context(), previous); err != nil {
				log.Warn().Err(err).Msg("failed to end previous browser session")
			}
		}
		sess, err := s.newBrowserSession(w)
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		redirect, err := s.auth.BeginLogin(r.Context(), sess)
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
	}
}

// CallbackHandler completes the login the provider redirected back from.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		sess, ok := s.browserSession(r)
		if !ok {
			s.writeAuthError(w, r, errNoSession)
			return
		}

		_, err := s.auth.CompleteLogin(r.Context(), sess, query.Get("state"), query.Get("code"))
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		// The bound fields restarted the record's expiry; the cookie follows it.
		if err := s.cookies.Refresh(w, sess.Token()); err != nil {
			log.Err(err).Msg("failed to refresh session cookie")
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Successfully authenticated."))
	}
}

// ProtectedHandler answers 200 with an empty body once RequireAccount has let the caller in.
func (s *Server) ProtectedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

// LogoutHandler removes the caller's session handle from the account and clears the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			s.writeAuthError(w, r, errNoSession)
			return
		}
		if err := s.auth.Logout(r.Context(), sess); err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		s.cookies.Clear(w)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Logged out."))
	}
}
