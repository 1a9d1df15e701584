package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anchal00/campbot/internal/bot"
	"github.com/anchal00/campbot/internal/config"
	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/metrics"
	"github.com/anchal00/campbot/internal/moderation"
	"github.com/anchal00/campbot/internal/server"
	"github.com/anchal00/campbot/internal/state"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const redisPingTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the messaging gateway and moderation API",
	Long: `Run the bot over websocket at /api/v1/connect/{userId}.

The moderation API is mounted under /api/v1/moderation when
CAMPBOT_MODERATOR_TOKEN is set. Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the game database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := db.SetupDB(cfg.DB)
		if err != nil {
			return err
		}
		repo.CloseConnection()
		fmt.Fprintf(cmd.OutOrStdout(), "Database %s.db is up to date\n", cfg.DB)
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	repo, err := db.SetupDB(cfg.DB)
	if err != nil {
		return err
	}
	sessions, err := newSessionStore(cmd.Context(), cfg)
	if err != nil {
		repo.CloseConnection()
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	b := bot.New(repo, sessions, m)
	gw := moderation.NewGateway(repo, m)
	return server.NewBotServer(cfg.Port, b, gw, reg, cfg.ModeratorToken).Run()
}

func newSessionStore(ctx context.Context, cfg config.Config) (state.SessionStore, error) {
	if cfg.SessionBackend != "redis" {
		return state.NewInMemorySessionStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return state.NewRedisSessionStore(client, cfg.SessionTTL), nil
}
