package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/josh-kartchner/traction/internal/config"
	"github.com/josh-kartchner/traction/internal/logging"
	"github.com/josh-kartchner/traction/migrations"
)

type App struct {
	cfg    config.Config
	logger *log.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	db, err := newPostgres(ctx, cfg.PG.DSN)
	if err != nil {
		return nil, err
	}
	a.db = db

	rdb, err := newRedis(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.redis = rdb

	if err := Migrate(ctx, cfg, logger, "up"); err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}

	router, err := newRouter(cfg, logger, a.db, a.redis)
	if err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("redis.close")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// Migrate runs a goose command ("up", "down" or "status") against PG_DSN.
// The embedded migrations are used unless MIGRATIONS_DIR is set.
func Migrate(ctx context.Context, cfg config.Config, logger *log.Logger, command string) error {
	db, err := goose.OpenDBWithDriver("pgx", cfg.PG.DSN)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetLogger(logger)
	dir := cfg.App.MigrationsDir
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		defer goose.SetBaseFS(nil)
		dir = "."
	}

	switch command {
	case "", "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func newRouter(cfg config.Config, logger *log.Logger, db *pgxpool.Pool, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(logger))
	r.Use(cors.New(corsConfig(cfg.HTTP.CORSOrigins)))

	if err := Setup(r, cfg, logger, db, rdb); err != nil {
		return nil, err
	}
	return r, nil
}

// corsConfig allows credentials only for an explicit origin list; browsers
// refuse credentialed requests to a wildcard.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
