package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jrsteele09/go-blog-server/cdn"
	"github.com/jrsteele09/go-blog-server/internal/app"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/logging"
	"github.com/jrsteele09/go-blog-server/server"
	"github.com/rs/zerolog/log"
)

const defaultPort = "8080"

func main() {
	c, err := config.LoadCDN()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	logging.Setup(c.GetEnv(), c.LogLevel)

	if err := app.Run(c.GetAppName("cdn"), func(ctx context.Context) error {
		return run(ctx, c)
	}); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
}

func run(ctx context.Context, c config.CDNConfig) error {
	store, err := cdn.NewMinioStore(cdn.MinioConfig{
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Secure:    c.Secure,
	})
	if err != nil {
		return err
	}
	cdnService, err := cdn.NewService(store)
	if err != nil {
		return err
	}

	handler, err := server.New(server.Config{Env: c.GetEnv()}, server.Deps{CDN: cdnService})
	if err != nil {
		return err
	}

	return app.Serve(ctx, app.NewHTTPServer(c.GetAddr(defaultPort), handler))
}
