package auth

import (
	"context"

	"github.com/jrsteele09/go-blog-server/provider"
)

// Provider is the external identity provider as the login flow sees it.
type Provider interface {
	// AuthorizeURL is the browser redirect target carrying the plaintext state.
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (*provider.Token, error)
	Profile(ctx context.Context, token *provider.Token) (*provider.Profile, error)
}
