package cdn

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"golang.org/x/crypto/blake2b"
)

// ErrHashMismatch is returned when an object's content does not match the requested digest.
var ErrHashMismatch = errors.New("invalid hash")

// ObjectStore reads whole objects. Missing buckets or objects return errors.ErrNotFound.
type ObjectStore interface {
	Get(ctx context.Context, bucket, name string) ([]byte, error)
}

// Hash returns the lowercase hex BLAKE2b-512 digest of data.
func Hash(data []byte) string {
	sum := blake2b.Sum512(data)
	return hex.EncodeToString(sum[:])
}

// VerifyHash reports whether expected, in either hex case, is the BLAKE2b-512 digest of data.
func VerifyHash(data []byte, expected string) bool {
	actual := Hash(data)
	expected = strings.ToLower(expected)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}

// Service serves objects only to callers that already know their content hash.
type Service struct {
	store ObjectStore
}

func NewService(store ObjectStore) (*Service, error) {
	if store == nil {
		return nil, errors.New("[cdn NewService] object store is required")
	}
	return &Service{store: store}, nil
}

// Fetch returns the object's bytes when its digest matches hash, ErrHashMismatch otherwise.
func (s *Service) Fetch(ctx context.Context, bucket, name, hash string) ([]byte, error) {
	data, err := s.store.Get(ctx, bucket, name)
	if err != nil {
		return nil, errors.Wrapf(err, "[cdn Fetch] %s/%s", bucket, name)
	}
	if !VerifyHash(data, hash) {
		return nil, errors.Wrapf(ErrHashMismatch, "[cdn Fetch] %s/%s", bucket, name)
	}
	return data, nil
}
