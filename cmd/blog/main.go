package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/internal/app"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/logging"
	"github.com/jrsteele09/go-blog-server/posts"
	postmongo "github.com/jrsteele09/go-blog-server/posts/mongorepo"
	"github.com/jrsteele09/go-blog-server/server"
	"github.com/rs/zerolog/log"
)

const defaultPort = "3002"

func main() {
	c, err := config.LoadBlog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	logging.Setup(c.GetEnv(), c.LogLevel)

	if err := app.Run(c.GetAppName("blog"), func(ctx context.Context) error {
		return run(ctx, c)
	}); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
}

func run(ctx context.Context, c config.BlogConfig) error {
	stores, err := app.OpenStores(ctx, c.Stores, c.SessionTTL)
	if err != nil {
		return err
	}
	defer stores.Close(ctx)

	postRepo := postmongo.New(stores.Mongo.Database(c.BlogDatabase).Collection(c.PostsCollection))
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	postService, err := posts.NewService(postRepo)
	if err != nil {
		return err
	}

	resolver, err := auth.NewResolver(stores.Accounts)
	if err != nil {
		return err
	}
	cookies, err := server.NewCookieCodec(c.CookieName, c.SecretKey, c.SessionTTL, c.SecureCookies)
	if err != nil {
		return err
	}

	handler, err := server.New(server.Config{
		Env:  c.GetEnv(),
		Cors: c.Cors,
	}, server.Deps{
		Sessions: stores.Sessions,
		Cookies:  cookies,
		Resolver: resolver,
		Posts:    postService,
	})
	if err != nil {
		return err
	}

	return app.Serve(ctx, app.NewHTTPServer(c.GetAddr(defaultPort), handler))
}
