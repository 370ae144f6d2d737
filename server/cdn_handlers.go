package server

import (
	"net/http"

	"github.com/jrsteele09/go-blog-server/cdn"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/rs/zerolog/log"
)

// CDNGetHandler serves an object only when the caller supplies its BLAKE2b-512 digest.
func (s *Server) CDNGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket, name, hash := r.PathValue("bucket"), r.PathValue("name"), r.PathValue("hash")

		data, err := s.cdn.Fetch(r.Context(), bucket, name, hash)
		switch {
		case errors.Is(err, cdn.ErrHashMismatch):
			http.Error(w, "Invalid hash", http.StatusBadRequest)
			return
		case errors.Is(err, errors.ErrNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		case err != nil:
			log.Err(err).Str("bucket", bucket).Str("name", name).Msg("object fetch failed")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", http.DetectContentType(data))
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		_, _ = w.Write(data)
	}
}
