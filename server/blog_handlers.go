package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/rs/zerolog/log"
)

const maxPostBodyBytes = 1 << 20

// ListPostsHandler returns a page of published posts. Limit is clamped to [10, 50].
func (s *Server) ListPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err1 := strconv.ParseInt(r.PathValue("page"), 10, 64)
		limit, err2 := strconv.ParseInt(r.PathValue("limit"), 10, 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		list, err := s.posts.List(r.Context(), posts.NewPage(page, limit))
		if err != nil {
			writeContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, _ := AccountFromContext(r.Context())
		post, err := s.posts.Get(r.Context(), r.PathValue("id"), account)
		if err != nil {
			writeContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (s *Server) DraftsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, _ := AccountFromContext(r.Context())
		list, err := s.posts.Drafts(r.Context(), account)
		if err != nil {
			writeContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) SetDraftHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := strconv.ParseBool(r.PathValue("draft"))
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		account, _ := AccountFromContext(r.Context())
		if err := s.posts.SetDraft(r.Context(), r.PathValue("id"), draft, account); err != nil {
			writeContentError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) SetHiddenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hide, err := strconv.ParseBool(r.PathValue("hide"))
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		account, _ := AccountFromContext(r.Context())
		if err := s.posts.SetHidden(r.Context(), r.PathValue("id"), hide, account); err != nil {
			writeContentError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) EditPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := decodeUpload(w, r)
		if !ok {
			return
		}
		account, _ := AccountFromContext(r.Context())
		if err := s.posts.Edit(r.Context(), r.PathValue("id"), upload, account); err != nil {
			writeContentError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// UploadPostHandler creates a draft. Only elevated accounts may upload.
func (s *Server) UploadPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := decodeUpload(w, r)
		if !ok {
			return
		}
		account, _ := AccountFromContext(r.Context())
		post, err := s.posts.Create(r.Context(), upload, account)
		if err != nil {
			writeContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func decodeUpload(w http.ResponseWriter, r *http.Request) (posts.Upload, bool) {
	var upload posts.Upload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostBodyBytes))
	if err := dec.Decode(&upload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return posts.Upload{}, false
	}
	return upload, true
}

func writeContentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, errors.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, errors.ErrInvalidInput):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		log.Err(err).Str("path", r.URL.Path).Msg("content request failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}
