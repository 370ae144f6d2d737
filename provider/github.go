package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"golang.org/x/oauth2"
)

const defaultHTTPTimeout = 15 * time.Second

// GitHub talks to a GitHub style OAuth2 provider: a browser authorize endpoint, a token
// endpoint taking the client credentials in the form body, and a bearer protected profile
// endpoint.
type GitHub struct {
	oauth      *oauth2.Config
	profileURL string
	userAgent  string
	httpClient *http.Client
}

type Option func(*GitHub)

// WithHTTPClient sets the client used for both the token and profile calls.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GitHub) {
		g.httpClient = c
	}
}

func NewGitHub(cfg Config, options ...Option) (*GitHub, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("[NewGitHub] client id and secret are required")
	}
	if cfg.AuthorizeURL == "" || cfg.TokenURL == "" || cfg.ProfileURL == "" {
		return nil, errors.New("[NewGitHub] authorize, token and profile URLs are required")
	}

	g := &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: cfg.ProfileURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// AuthorizeURL is where the browser is sent to log in. state travels in plaintext.
func (g *GitHub) AuthorizeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token. Single attempt, no retry.
func (g *GitHub) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := g.oauth.Exchange(g.clientContext(ctx), code)
	if err != nil {
		return nil, errors.Wrapf(classify(err), "[GitHub Exchange]")
	}
	scope, _ := tok.Extra("scope").(string)
	return &Token{
		AccessToken: tok.AccessToken,
		Scope:       scope,
		TokenType:   tok.TokenType,
	}, nil
}

// Profile fetches the authenticated user with the access token as bearer credential.
func (g *GitHub) Profile(ctx context.Context, token *Token) (*Profile, error) {
	if token == nil || token.AccessToken == "" {
		return nil, errors.Wrapf(errors.ErrDeserializationFailure, "[GitHub Profile] no access token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.profileURL, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[GitHub Profile] build request")
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	client := g.oauth.Client(g.clientContext(ctx), &oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	})
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[GitHub Profile]")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(errors.ErrTransportFailure, "[GitHub Profile] profile endpoint returned %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrDeserializationFailure, err), "[GitHub Profile]")
	}
	if profile.ID == 0 {
		return nil, errors.Wrapf(errors.ErrDeserializationFailure, "[GitHub Profile] profile has no id")
	}
	return &profile, nil
}

func (g *GitHub) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
}

// classify maps an oauth2 exchange error onto the error taxonomy. The provider refusing the
// request and the network failing are transport failures; anything else is a body the
// library could not make sense of.
func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return errors.Kind(errors.ErrTransportFailure, fmt.Errorf("token endpoint returned %d: %w", retrieveErr.Response.StatusCode, err))
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return errors.Kind(errors.ErrTransportFailure, err)
	}
	return errors.Kind(errors.ErrDeserializationFailure, err)
}
