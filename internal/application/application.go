package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"reviewhunter/internal/config"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/internal/infrastructure/notifier"
	"reviewhunter/internal/infrastructure/persistence"
	"reviewhunter/internal/infrastructure/places"
	"reviewhunter/internal/infrastructure/quota"
	"reviewhunter/internal/infrastructure/tasks"
	"reviewhunter/internal/server"
	"reviewhunter/internal/transport/bot"
	"reviewhunter/internal/worker"
	"reviewhunter/pkg/application/connectors"
	"reviewhunter/pkg/application/modules"
	"reviewhunter/pkg/contextx"
	"reviewhunter/pkg/logx"
	"reviewhunter/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const alertBuffer = 100

// Run wires the whole application and blocks until the context is cancelled
// or one of the modules fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rds := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rds.Client(ctx)
	defer rds.Close(ctx)

	huntRepo := persistence.NewHuntRepository(db)

	placesClient := places.NewClient(
		cfg.Places,
		places.WithBudget(quota.NewBudget(redisClient, cfg.Places.DailyBudget)),
	)

	huntService := hunt.NewService(placesClient).
		WithConcurrency(cfg.Hunt.Concurrency).
		WithDefaults(cfg.Hunt.DefaultLimit, cfg.Hunt.DefaultReviewsPerPlace)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger(ctx).Error("asynqClient.Close", logx.Error(err))
		}
	}()

	runHTTPServer(ctx, g, cfg, server.NewServer(
		server.NewHuntServer(huntService, huntRepo, tasks.NewEnqueuer(asynqClient)),
	))

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Server.MetricsListenAddress,
	}.Run(ctx, g)

	huntHandler := tasks.NewHuntHandler(huntService, huntRepo)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{"default": 1},
		modules.AsynqHandler{Pattern: tasks.TypeHuntRun, Handle: huntHandler.HandleHuntRun},
	)

	watcher, err := runWatcher(ctx, g, cfg, huntService)
	if err != nil {
		return err
	}

	if cfg.Bot.Enabled {
		commandBot, err := bot.New(cfg, huntService, watcher)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			if err := commandBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("commandBot.Run: %w", err)
			}

			return nil
		})
	}

	return g.Wait()
}

func runHTTPServer(ctx context.Context, g *errgroup.Group, cfg config.Config, srv server.Server) {
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.Server.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Server.LogFieldMaxLen),
	)

	srv.RegisterRoutes(router)

	modules.HTTPServer{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	})
}

// runWatcher starts the background re-hunting of configured targets, feeding
// hot leads to the alert bot when one is configured.
func runWatcher(ctx context.Context, g *errgroup.Group, cfg config.Config, huntService *hunt.Service) (*worker.LeadWatcher, error) {
	if !cfg.Watch.Enabled {
		return nil, nil
	}

	targets, err := cfg.Watch.ParseTargets()
	if err != nil {
		return nil, fmt.Errorf("watch.ParseTargets: %w", err)
	}

	alerts := make(chan entity.Lead, alertBuffer)

	watcher := worker.NewLeadWatcher(huntService, alerts, targets).
		WithInterval(cfg.Watch.Interval).
		WithPace(cfg.Watch.Pace).
		WithAlertTTL(cfg.Watch.AlertTTL)

	if err := watcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("watcher.Start: %w", err)
	}

	g.Go(func() error {
		<-ctx.Done()
		watcher.Stop()
		close(alerts)

		return nil
	})

	if cfg.Bot.Enabled {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error {
			if err := alertBot.Run(ctx, alerts); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("alertBot.Run: %w", err)
			}

			return nil
		})

		return watcher, nil
	}

	// Без бота горячие лиды просто уходят в лог
	g.Go(func() error {
		for lead := range alerts {
			logger(ctx).Info("hot lead found",
				logx.FieldPlaceID, lead.Business.PlaceID,
				logx.FieldScore, lead.Score,
				"name", lead.Business.Name,
			)
		}

		return nil
	})

	return watcher, nil
}
