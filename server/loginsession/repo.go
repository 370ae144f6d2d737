package loginsession

import (
	"context"
	"errors"
)

// ErrTokenRequired is returned when a store call is made without a session token.
var ErrTokenRequired = errors.New("session token is required")

// Store is the ephemeral, cookie addressed session store. Every record is a flat set of string
// fields keyed by the browser's session token; lifetime is governed by the store's own expiry.
type Store interface {
	// Get returns the field value and whether it was present.
	Get(ctx context.Context, token, field string) (string, bool, error)
	Set(ctx context.Context, token, field, value string) error
	Remove(ctx context.Context, token, field string) error

	// Take reads and removes a field in one atomic step. Of two concurrent Takes on the same
	// field at most one observes it.
	Take(ctx context.Context, token, field string) (string, bool, error)

	// Destroy removes the whole record.
	Destroy(ctx context.Context, token string) error
}

// Session binds a Store to one browser's token.
type Session struct {
	store Store
	token string
}

func New(store Store, token string) *Session {
	return &Session{store: store, token: token}
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) Get(ctx context.Context, field string) (string, bool, error) {
	return s.store.Get(ctx, s.token, field)
}

func (s *Session) Set(ctx context.Context, field, value string) error {
	return s.store.Set(ctx, s.token, field, value)
}

func (s *Session) Remove(ctx context.Context, field string) error {
	return s.store.Remove(ctx, s.token, field)
}

func (s *Session) Take(ctx context.Context, field string) (string, bool, error) {
	return s.store.Take(ctx, s.token, field)
}

func (s *Session) Destroy(ctx context.Context) error {
	return s.store.Destroy(ctx, s.token)
}
