package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/deskmesh/deskmesh"
	"github.com/deskmesh/deskmesh/backend"
	"github.com/deskmesh/deskmesh/config"
	"github.com/deskmesh/deskmesh/logging"
	"github.com/deskmesh/deskmesh/notify"
	"github.com/deskmesh/deskmesh/session"
)

const Version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "deskmesh",
	Short: "DeskMesh - support message triage",
	Long: `DeskMesh classifies incoming support messages, answers them from a
knowledge article corpus or backend tools, and escalates what it cannot
resolve.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")

	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(toolsCmd)
}

// buildService wires a DeskMesh from the effective configuration. The
// returned cleanup closes any external connections and is safe to call even
// when everything is in-memory.
func buildService(ctx context.Context) (*deskmesh.DeskMesh, logging.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	opts := []func(o *deskmesh.Options){
		func(o *deskmesh.Options) {
			o.Logger = logger
			o.TopK = cfg.TopK
			o.CorpusPath = cfg.Corpus.Path
			o.CorpusAccount = cfg.Corpus.Account
			o.ReloadPerTurn = cfg.Corpus.ReloadPerTurn
		},
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := session.NewRedisStore(client, cfg.Redis.TTL)
		cleanups = append(cleanups, func() { _ = store.Close() })
		opts = append(opts, func(o *deskmesh.Options) { o.ConversationStore = store })
	}

	if cfg.Postgres.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		opts = append(opts, func(o *deskmesh.Options) {
			o.AccountStore = backend.NewPostgresAccountStore(pool)
			o.TicketLog = backend.NewPostgresTicketLog(pool)
		})
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		cleanups = append(cleanups, func() { _ = pub.Close() })
		opts = append(opts, func(o *deskmesh.Options) { o.Publisher = pub })
	}

	svc, err := deskmesh.New(opts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, logger, cleanup, nil
}
