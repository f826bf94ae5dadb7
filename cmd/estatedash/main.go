package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"estatedash/internal/app/commands"
	crawlapp "estatedash/internal/app/handlers/crawl"
	"estatedash/internal/app/handlers/reports"
	valuationapp "estatedash/internal/app/handlers/valuation"
	"estatedash/internal/app/middleware"
	appoutbox "estatedash/internal/app/outbox"
	"estatedash/internal/app/pages"
	"estatedash/internal/app/policies"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/valuation"
	"estatedash/internal/infra/broker/kafka"
	"estatedash/internal/infra/config"
	mongostore "estatedash/internal/infra/db/mongo"
	"estatedash/internal/infra/estateapi"
	"estatedash/internal/infra/export"
	ginserver "estatedash/internal/infra/http/gin"
	"estatedash/internal/infra/obs"
	infraoutbox "estatedash/internal/infra/outbox"
	"estatedash/internal/infra/pricing"
	"estatedash/internal/infra/storage/memory"
	"estatedash/internal/infra/storage/s3"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := app.worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if cfg.GRPCHealthAddr != "" {
		grpcHealth := &obs.GRPCHealth{Addr: cfg.GRPCHealthAddr, Health: app.health, Logger: logger}
		g.Go(func() error { return grpcHealth.Serve(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	health   obs.HealthHandlers
	worker   *infraoutbox.Worker
	closers  []func(context.Context) error
}

func (a application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

// storage is where history, idempotency records and activity live:
// MongoDB when configured, process memory otherwise.
type storage struct {
	history     valuation.HistoryRepository
	idempotency middleware.IdempotencyStore
	outbox      appoutbox.Outbox
	source      infraoutbox.Source
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var app application
	checks := map[string]obs.Check{}

	estate, err := estateapi.New(&http.Client{}, estateapi.Config{BaseURL: cfg.EstateAPIURL, Timeout: cfg.EstateAPITimeout}, logger)
	if err != nil {
		return app, err
	}
	checks["estate_api"] = func(ctx context.Context) error {
		_, err := estate.Websites(ctx)
		return err
	}

	var predictor policies.Predictor
	switch cfg.PricingMode {
	case config.PricingModeMemory:
		predictor = memory.NewPredictor()
		logger.Info("using in-memory predictor")
	default:
		ml := &pricing.MLPredictor{Client: &http.Client{Timeout: 30 * time.Second}, BaseURL: cfg.PredictAPIURL, Logger: logger}
		predictor = ml
		checks["prediction"] = ml.Ping
	}

	store, err := buildStorage(ctx, cfg, logger, &app, checks)
	if err != nil {
		return app, err
	}

	var producer infraoutbox.Producer = infraoutbox.LogProducer{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig("estatedash"))
		if err != nil {
			return app, err
		}
		app.closers = append(app.closers, func(context.Context) error { return kp.Close() })
		producer = kp
	}
	app.worker = &infraoutbox.Worker{
		Source:      store.source,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}

	var reportStore policies.ReportStore
	if cfg.ReportsEnabled() {
		client, err := s3.NewClient(s3.Options{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return app, err
		}
		reportStore = client
		checks["report_storage"] = client.Ping
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	chainedCommands := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Validation(middleware.MessageValidator{}),
		middleware.Idempotency(store.idempotency, nil),
		middleware.ActivityRecording(store.outbox, encoder),
	)
	chainedQueries := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(middleware.MessageValidator{}),
	)

	valuationapp.Register(commandBus, queryBus,
		&valuationapp.PredictHandler{
			Predictor: predictor,
			History:   store.history,
			Listings:  estate,
			Logger:    logger,
		},
		&valuationapp.ListHistoryHandler{History: store.history},
	)
	crawlapp.Register(commandBus, &crawlapp.Handler{
		Crawler: estate,
		Logger:  logger,
	})
	reports.Register(commandBus, queryBus, &reports.Handler{
		Listings: estate,
		Renderer: export.Workbook{},
		Store:    reportStore,
		Logger:   logger,
	})
	pages.Register(queryBus, commandBus, estate, chainedCommands, chainedQueries, logger)
	logger.Debug("buses ready", "commands", commandBus.Keys(), "queries", queryBus.Keys())

	app.handlers = ginserver.Handlers{
		Pages:     ginserver.PageHandler{Queries: chainedQueries},
		Valuation: ginserver.ValuationHandler{Commands: chainedCommands, Queries: chainedQueries},
		Crawl:     ginserver.CrawlHandler{Commands: chainedCommands},
		Reports:   ginserver.ReportHandler{Commands: chainedCommands, Queries: chainedQueries},
	}
	app.health = obs.HealthHandlers{Checks: checks}
	return app, nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger, app *application, checks map[string]obs.Check) (storage, error) {
	if cfg.MongoURI == "" {
		logger.Info("MONGO_URI not set, keeping history and activity in memory")
		box := memory.NewOutbox()
		return storage{
			history:     memory.NewHistoryRepository(0),
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
			outbox:      box,
			source:      box,
		}, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, err
	}
	app.closers = append(app.closers, client.Close)
	checks["mongo"] = client.Ping

	history, err := mongostore.NewHistoryRepository(ctx, client.DB)
	if err != nil {
		return storage{}, err
	}
	idem, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return storage{}, err
	}
	box, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		return storage{}, err
	}
	return storage{history: history, idempotency: idem, outbox: box, source: box}, nil
}
