package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/internal/app"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/logging"
	"github.com/jrsteele09/go-blog-server/provider"
	"github.com/jrsteele09/go-blog-server/server"
	"github.com/rs/zerolog/log"
)

const defaultPort = "3001"

func main() {
	c, err := config.LoadAuthenticate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	logging.Setup(c.GetEnv(), c.LogLevel)

	if err := app.Run(c.GetAppName("authenticate"), func(ctx context.Context) error {
		return run(ctx, c)
	}); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
}

func run(ctx context.Context, c config.AuthenticateConfig) error {
	stores, err := app.OpenStores(ctx, c.Stores, c.SessionTTL)
	if err != nil {
		return err
	}
	defer stores.Close(ctx)

	github, err := provider.NewGitHub(provider.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
		AuthorizeURL: c.AuthorizeURL,
		TokenURL:     c.TokenURL,
		ProfileURL:   c.ProfileURL,
		UserAgent:    c.UserAgent,
	})
	if err != nil {
		return err
	}

	hasher := auth.NewBcryptStateHasher(c.GetStateHashCost())
	log.Debug().Int("cost", hasher.Cost()).Msg("state hasher")

	authService, err := auth.NewService(stores.Accounts, github,
		auth.WithStateHasher(hasher),
		auth.WithStateLength(c.StateLength),
		auth.WithSessionIDLength(c.SessionIDLength),
	)
	if err != nil {
		return err
	}

	cookies, err := server.NewCookieCodec(c.CookieName, c.SecretKey, c.SessionTTL, c.SecureCookies)
	if err != nil {
		return err
	}

	handler, err := server.New(server.Config{
		Env:            c.GetEnv(),
		Cors:           c.Cors,
		LoginRateLimit: c.LoginRateLimit,
		LoginRateBurst: c.LoginRateBurst,
	}, server.Deps{
		Sessions: stores.Sessions,
		Cookies:  cookies,
		Auth:     authService,
	})
	if err != nil {
		return err
	}

	return app.Serve(ctx, app.NewHTTPServer(c.GetAddr(defaultPort), handler))
}
