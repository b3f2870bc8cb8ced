package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/config"
	"interview-prep-service/internal/content"
	"interview-prep-service/internal/infra/memory"
	pginfra "interview-prep-service/internal/infra/postgres"
	redisinfra "interview-prep-service/internal/infra/redis"
	"interview-prep-service/internal/infra/sqlite"
	"interview-prep-service/internal/logging"
)

// components are the long-lived collaborators shared by start and stats.
type components struct {
	cfg       config.Config
	log       *logrus.Logger
	storage   app.Storage
	questions app.QuestionRepository

	redisClient *redis.Client
	pool        *pgxpool.Pool
	closers     []func()
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func loadConfig(path string) (config.Config, *logrus.Logger, error) {
	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config %s: %w", path, err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if !found {
		log.WithField("path", path).Info("config file not found, using defaults")
	}
	return cfg, log, nil
}

func buildComponents(ctx context.Context, cfg config.Config, log *logrus.Logger) (*components, error) {
	c := &components{cfg: cfg, log: log}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	if err := c.openStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.openQuestions(ctx); err != nil {
		return nil, err
	}
	ok = true
	return c, nil
}

func (c *components) openStorage(ctx context.Context) error {
	cfg := c.cfg
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		c.storage = memory.NewStorage()
	case config.DriverNone:
		c.storage = nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite storage: %w", err)
		}
		c.closers = append(c.closers, func() { store.Close() })
		c.storage = store
	case config.DriverRedis:
		client, err := c.redis(ctx)
		if err != nil {
			return err
		}
		c.storage = redisinfra.NewStorage(client, cfg.Storage.Namespace, config.TTLDuration(cfg.Redis.TTL, 0))
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg, c.log); err != nil {
			return err
		}
		pool, err := c.postgres(ctx)
		if err != nil {
			return err
		}
		c.storage = pginfra.NewStorage(pool, cfg.Storage.Namespace)
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	c.log.WithField("driver", cfg.Storage.Driver).Info("state storage ready")
	return nil
}

func (c *components) openQuestions(ctx context.Context) error {
	cfg := c.cfg
	var loader app.QuestionLoader
	switch cfg.Content.Source {
	case config.SourceMarkdown:
		loader = content.NewMarkdownLoader(cfg.Content.Dir, c.log)
	case config.SourcePostgres:
		pool, err := c.postgres(ctx)
		if err != nil {
			return err
		}
		loader = pginfra.NewQuestionLoader(pool)
	default:
		return fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}

	ttl := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client, err := c.redis(ctx)
		if err != nil {
			return err
		}
		c.questions = redisinfra.NewQuestionRepository(client, loader, ttl)
		return nil
	}
	c.questions = memory.NewQuestionRepository(loader, ttl)
	return nil
}

func (c *components) redis(ctx context.Context) (*redis.Client, error) {
	if c.redisClient != nil {
		return c.redisClient, nil
	}
	if c.cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.Addr,
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.redisClient = client
	c.closers = append(c.closers, func() { client.Close() })
	return client, nil
}

func (c *components) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if c.pool != nil {
		return c.pool, nil
	}
	if c.cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres url not configured")
	}
	pool, err := pgxpool.Connect(ctx, c.cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.pool = pool
	c.closers = append(c.closers, pool.Close)
	return pool, nil
}
