package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/console"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/people-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/people-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/resilience"
)

// connectTimeout bounds each optional collaborator's startup ping.
const connectTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	dataPath, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stdout, usage)
		return apperrors.ExitCode(err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return apperrors.ExitFailure
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	records, err := ingestion.LoadRecords(dataPath)
	if err != nil {
		slog.Error("failed to load records", "path", dataPath, "error", err)
		return apperrors.ExitFailure
	}
	ix := index.Build(records)
	slog.Info("index built", "records", ix.Len(), "terms", ix.Terms(), "dataset", ix.Fingerprint())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
	}
	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d records, %d terms", ix.Len(), ix.Terms()),
		}
	})

	opts := []executor.Option{executor.WithMetrics(m)}
	if cfg.Redis.Enabled {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		redisClient, err := pkgredis.NewClient(connectCtx, cfg.Redis)
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			checker.Register("redis", health.PingCheck(redisClient.Ping, health.StatusDegraded))
			opts = append(opts, executor.WithCache(cache.New(redisClient, cfg.Redis.CacheTTL)))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var sinks []analytics.Sink
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		defer producer.Close()
		sinks = append(sinks, analytics.NewKafkaSink(producer))
		slog.Info("kafka analytics sink enabled", "topic", cfg.Kafka.Topics.SearchEvents)
	}
	if cfg.Postgres.Enabled {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		db, err := postgres.New(connectCtx, cfg.Postgres)
		cancel()
		if err != nil {
			slog.Warn("postgres unavailable, event storage disabled", "error", err)
		} else {
			defer db.Close()
			checker.Register("postgres", health.PingCheck(db.Ping, health.StatusDegraded))
			if err := analytics.EnsureSchema(ctx, db); err != nil {
				slog.Warn("preparing search_events table failed, event storage disabled", "error", err)
			} else {
				sinks = append(sinks, analytics.NewPostgresSink(db.DB))
				slog.Info("postgres analytics sink enabled", "database", cfg.Postgres.Database)
			}
		}
	}
	if len(sinks) > 0 {
		collector := analytics.NewCollector(analytics.CollectorConfig{
			PublishTimeout: cfg.Analytics.PublishTimeout,
			Retry:          resilience.Backoff{Attempts: cfg.Analytics.MaxAttempts},
		}, m, sinks...)
		checker.Register("analytics", collector.Health)
		collector.Start(ctx)
		defer collector.Close()
		opts = append(opts, executor.WithTracker(collector))
	}

	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, checker.Handler())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	exec := executor.New(ix, opts...)
	sessionCtx := logger.WithSessionID(ctx, newSessionID())
	session := console.NewSession(console.NewMachine(exec, m), stdin, stdout)

	// A blocked read on stdin cannot observe ctx, so wait on both.
	done := make(chan error, 1)
	go func() { done <- session.Run(sessionCtx) }()
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil && ctx.Err() == nil {
		slog.Error("session failed", "error", err)
		return apperrors.ExitFailure
	}
	return apperrors.ExitOK
}

func newSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
