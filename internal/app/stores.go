package app

import (
	"context"
	"time"

	"github.com/jrsteele09/go-blog-server/accounts"
	accountmongo "github.com/jrsteele09/go-blog-server/accounts/mongorepo"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/server/loginsession"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ConnectRedis opens a client for a redis:// URI and checks it answers.
func ConnectRedis(ctx context.Context, uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "[ConnectRedis] parse %q", uri)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[ConnectRedis] ping")
	}
	return rdb, nil
}

// ConnectMongo opens a client for a mongodb:// URI and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrapf(err, "[ConnectMongo]")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[ConnectMongo] ping")
	}
	return client, nil
}

// Stores holds the connections shared by the login and blog services.
type Stores struct {
	Redis    *redis.Client
	Mongo    *mongo.Client
	Sessions loginsession.Store
	Accounts accounts.Repo
}

// OpenStores connects both backends, ensures the account indexes and builds the
// session store and account repo on top of them.
func OpenStores(ctx context.Context, cfg config.Stores, sessionTTL time.Duration) (*Stores, error) {
	rdb, err := ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		return nil, err
	}
	mc, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	accountRepo := accountmongo.New(mc.Database(cfg.AccountsDatabase).Collection(cfg.AccountsCollection))
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		s := &Stores{Redis: rdb, Mongo: mc}
		s.Close(ctx)
		return nil, errors.Wrapf(err, "[OpenStores]")
	}

	return &Stores{
		Redis:    rdb,
		Mongo:    mc,
		Sessions: loginsession.NewRedisStore(rdb, cfg.SessionKeyPrefix, sessionTTL),
		Accounts: accountRepo,
	}, nil
}

func (s *Stores) Close(ctx context.Context) {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis")
		}
	}
	if s.Mongo != nil {
		if err := s.Mongo.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("disconnecting mongo")
		}
	}
}
