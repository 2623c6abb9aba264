package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Vodeneev/fairline/internal/aggregator"
	"github.com/Vodeneev/fairline/internal/api"
	"github.com/Vodeneev/fairline/internal/fetch"
	"github.com/Vodeneev/fairline/internal/monitor"
	"github.com/Vodeneev/fairline/internal/notify"
	"github.com/Vodeneev/fairline/internal/pkg/config"
	"github.com/Vodeneev/fairline/internal/pkg/logging"
	"github.com/Vodeneev/fairline/internal/pkg/storage"
	"github.com/Vodeneev/fairline/internal/providers/catalog"
	"github.com/Vodeneev/fairline/internal/scheduler"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var configPath string
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	if err := run(configPath); err != nil {
		log.Fatalf("aggregator-service: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logging.Setup(&cfg.Logging, "aggregator-service")
	slog.Info("Config loaded", "path", configPath, "providers", len(cfg.Providers))

	store, err := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("error closing redis", "error", err)
		}
	}()

	var snapshots storage.SnapshotStorage
	if cfg.Postgres.SnapshotsEnabled {
		dsn := cfg.Postgres.DSN
		if envDSN := os.Getenv("POSTGRES_DSN"); envDSN != "" {
			dsn = envDSN
		}
		pg, err := storage.NewPostgresSnapshotStorage(dsn)
		if err != nil {
			return err
		}
		defer func() {
			if err := pg.Close(); err != nil {
				slog.Warn("error closing postgres", "error", err)
			}
		}()
		snapshots = pg
		slog.Info("Snapshot storage enabled")
	}

	reg, err := catalog.Build(cfg.Providers)
	if err != nil {
		return err
	}

	client := fetch.NewClient(cfg.Scheduler.FetchTimeout.Std())

	sched := scheduler.New(scheduler.Config{
		Interval:         cfg.Scheduler.Interval.Std(),
		Concurrency:      cfg.Scheduler.Concurrency,
		FailureThreshold: cfg.Scheduler.FailureThreshold,
		BaseBackoff:      cfg.Scheduler.BaseBackoff.Std(),
		MaxBackoff:       cfg.Scheduler.MaxBackoff.Std(),
		RateLimitTrip:    cfg.Scheduler.RateLimitTrip,
		CacheTTL:         cfg.Cache.TTL.Std(),
		FailureTTL:       cfg.Cache.FailureTTL.Std(),
	}, reg, store, client.Fetch)

	var notifier *notify.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		chatID := cfg.Telegram.ChatID
		if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				chatID = parsed
			}
		}
		notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, chatID)
		if notifier != nil {
			defer notifier.Stop()
			sched.SetNotifier(notifier)
		}
	}

	agg := aggregator.New(reg, store, cfg.Aggregator.FuzzyJoin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, stopping...")
		cancel()
	}()

	api.NewServer(agg, store, snapshots).Run(ctx, cfg.API.Addr, cfg.API.ReadHeaderTimeout.Std())

	sched.Start(ctx)
	defer sched.Stop()

	watch := make([]aggregator.Query, 0, len(cfg.Aggregator.Watch))
	for _, w := range cfg.Aggregator.Watch {
		watch = append(watch, aggregator.Query{Sport: w.Sport, League: w.League})
	}

	var alerter monitor.Alerter
	if notifier != nil {
		alerter = notifier
	}

	slog.Info("Aggregator service started", "api_addr", cfg.API.Addr)
	monitor.New(agg, snapshots, alerter, cfg.Telegram.ValueAlertPercent, cfg.Scheduler.Interval.Std(), watch).Start(ctx)

	slog.Info("Aggregator service stopped")
	return nil
}
