package cmd

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitcircle/fitcircle-client/pkg/cmd"
	"github.com/fitcircle/fitcircle-client/pkg/env"
	"github.com/fitcircle/fitcircle-client/pkg/http"
	"github.com/fitcircle/fitcircle-client/pkg/kv"
	kvredis "github.com/fitcircle/fitcircle-client/pkg/kv/redis"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	"github.com/fitcircle/fitcircle-client/pkg/log"
	"github.com/fitcircle/fitcircle-client/pkg/metric/prometheus"
	"github.com/fitcircle/fitcircle-client/pkg/sql"
	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

const (
	metricsNamespace = "fitcircle"
	MetricsPath      = "/metrics"

	logFormatText = "text"
)

var dotenvFiles = []string{".env.local", ".env"}

type InfrastructureContainer struct {
	HTTPServer        lazy.Loader[http.Server]
	HTTPClientFactory lazy.Loader[HTTPClientFactory]
	SessionStore      lazy.Loader[kv.Store]
	DB                lazy.Loader[sql.Database]
	Redis             lazy.Loader[redis.UniversalClient]
	Scheduler         lazy.Loader[pkgtime.Scheduler]
	Metrics           lazy.Loader[*prometheus.Metrics]
	Logger            lazy.Loader[log.Logger]
}

func NewInfrastructureContainer(ctx context.Context) *InfrastructureContainer {
	if err := env.Load(dotenvFiles...); err != nil {
		panic(err)
	}

	metrics := metricsProvider()
	logger := loggerProvider()
	db := sqlDatabaseProvider(ctx, logger)
	redisClient := redisClientProvider()

	return &InfrastructureContainer{
		HTTPServer:        httpServerProvider(metrics, logger),
		HTTPClientFactory: httpClientFactoryProvider(metrics, logger),
		SessionStore:      sessionStoreProvider(ctx, db, redisClient),
		DB:                db,
		Redis:             redisClient,
		Scheduler:         lazy.New(func() (pkgtime.Scheduler, error) { return pkgtime.NewScheduler(), nil }),
		Metrics:           metrics,
		Logger:            logger,
	}
}

func (i *InfrastructureContainer) Close(ctx context.Context) {
	i.DB.IfLoaded(func(db sql.Database) { db.Close(ctx) })
	i.Redis.IfLoaded(func(client redis.UniversalClient) {
		if err := client.Close(); err != nil {
			i.Logger.MustLoad().WithError(err).Error(ctx, "failed to close redis client")
		}
	})
}

// MustClose must be deferred directly by main. It closes the container and exits when main panicked.
func (i *InfrastructureContainer) MustClose(ctx context.Context) {
	msg := recover()
	if msg != nil {
		cmd.LogPanic(ctx, i.Logger.MustLoad(), msg)
	}

	i.Close(ctx)
	if msg != nil {
		os.Exit(1)
	}
}

func metricsProvider() lazy.Loader[*prometheus.Metrics] {
	return lazy.New(func() (*prometheus.Metrics, error) {
		return prometheus.New(metricsNamespace), nil
	})
}

func loggerProvider() lazy.Loader[log.Logger] {
	return lazy.New(func() (log.Logger, error) {
		var opts []log.Option
		if format := env.Must(env.ParseOptional[*string]("LOG_FORMAT")); format != nil && *format == logFormatText {
			opts = append(opts, log.WithTextFormat())
		}

		level := env.Must(env.ParseOptional[*string]("LOG_LEVEL"))
		if level == nil {
			return log.New(log.LevelInfo, opts...), nil
		}

		return log.New(log.ParseLevel(*level), opts...), nil
	})
}

func sqlDatabaseProvider(
	ctx context.Context,
	logger lazy.Loader[log.Logger],
) lazy.Loader[sql.Database] {
	return lazy.New(func() (sql.Database, error) {
		sqlConfig := &sql.Config{
			DSN: sql.DSN{
				User:     env.Must(env.Parse[string]("SQL_USER")),
				Password: env.Must(env.Parse[string]("SQL_PASSWORD")),
				Address:  env.Must(env.Parse[string]("SQL_ADDRESS")),
				Database: env.Must(env.Parse[string]("SQL_DATABASE")),
			},
		}
		sqlConnTimeout := env.Must(env.ParseOptional[*time.Duration]("SQL_CONNECTION_TIMEOUT"))
		if sqlConnTimeout != nil {
			sqlConfig.ConnectionTimeout = *sqlConnTimeout
		}

		db, err := sql.NewDatabase(ctx, sqlConfig, logger.MustLoad())
		if err != nil {
			return nil, fmt.Errorf("open sql connection: %w", err)
		}

		return db, nil
	})
}

func redisClientProvider() lazy.Loader[redis.UniversalClient] {
	return lazy.New(func() (redis.UniversalClient, error) {
		config := &kvredis.Config{
			Address: env.Must(env.Parse[string]("REDIS_ADDRESS")),
		}
		if password := env.Must(env.ParseOptional[*string]("REDIS_PASSWORD")); password != nil {
			config.Password = *password
		}
		if db := env.Must(env.ParseOptional[*int]("REDIS_DB")); db != nil {
			config.DB = *db
		}

		return kvredis.NewClient(config), nil
	})
}

func sessionStoreProvider(
	ctx context.Context,
	db lazy.Loader[sql.Database],
	redisClient lazy.Loader[redis.UniversalClient],
) lazy.Loader[kv.Store] {
	return lazy.New(func() (kv.Store, error) {
		kind := StoreKindMemory
		if configured := env.Must(env.ParseOptional[*string]("SESSION_STORE")); configured != nil {
			kind = StoreKind(*configured)
		}

		var encryptionKey []byte
		if key := env.Must(env.ParseOptional[*[]byte]("SESSION_STORE_KEY")); key != nil {
			encryptionKey = *key
		}

		return NewSessionStore(ctx, kind, encryptionKey, db, redisClient)
	})
}

func httpServerProvider(
	metrics lazy.Loader[*prometheus.Metrics],
	logger lazy.Loader[log.Logger],
) lazy.Loader[http.Server] {
	return lazy.New(func() (http.Server, error) {
		address := http.DefaultServerAddress
		if configured := env.Must(env.ParseOptional[*string]("STATUS_SERVER_ADDRESS")); configured != nil {
			address = *configured
		}

		server := http.NewServer(
			address,
			http.WithHealthCheck(),
			http.WithLogging(logger.MustLoad(), MetricsPath),
		)
		server.Register(nethttp.MethodGet, MetricsPath, metrics.MustLoad().Handler())
		return server, nil
	})
}

func httpClientFactoryProvider(
	metrics lazy.Loader[*prometheus.Metrics],
	logger lazy.Loader[log.Logger],
) lazy.Loader[HTTPClientFactory] {
	return lazy.New(func() (HTTPClientFactory, error) {
		return NewHTTPClientFactory(
			http.WithRequestID(http.DefaultRequestIDHeader),
			http.WithRequestMetrics(metrics.MustLoad()),
			http.WithRequestLogging(logger.MustLoad(), log.LevelInfo, log.LevelWarn),
		), nil
	})
}
