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

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/chronos-hr/chronos/internal/access"
	"github.com/chronos-hr/chronos/internal/app"
	"github.com/chronos-hr/chronos/internal/audit"
	audithttp "github.com/chronos-hr/chronos/internal/audit/http"
	"github.com/chronos-hr/chronos/internal/auth"
	"github.com/chronos-hr/chronos/internal/hr/employees"
	"github.com/chronos-hr/chronos/internal/hr/timesheets"
	"github.com/chronos-hr/chronos/internal/observability"
	"github.com/chronos-hr/chronos/internal/platform/cache"
	"github.com/chronos-hr/chronos/internal/platform/db"
	"github.com/chronos-hr/chronos/internal/rbac"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	store := audit.NewPGStore(dbpool)
	var sink audit.Sink
	var asynqClient *asynq.Client
	if cfg.AuditSynchronous {
		sink = audit.StoreSink{Store: store}
	} else {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger.Warn("asynq close", slog.Any("error", err))
			}
		}()
		sink = audit.NewOutbox(asynqClient)
	}
	recorder := audit.NewRecorder(sink, logger, audit.WithTimeout(cfg.AuditTimeout))
	recorder.OnResult = metrics.ObserveAudit

	guard := access.Guard{
		Registry:   app.BuildRegistry(),
		Engine:     access.NewEngine(logger),
		Audit:      recorder,
		Logger:     logger,
		OnDecision: metrics.ObserveDecision,
	}

	rbacService := rbac.NewService(dbpool)
	permissionCache := rbac.NewPermissionCache(redisClient, rbacService, logger, cfg.PermissionCacheTTL)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	authService := auth.NewService(auth.NewPGRepository(dbpool), tokens)
	resolver := auth.Resolver{Tokens: tokens, Logger: logger}

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Resolver:          resolver,
		Guard:             guard,
		AuthHandler:       auth.NewHandler(logger, authService, permissionCache),
		EmployeesHandler:  employees.NewHandler(logger, employees.NewService(employees.NewPGRepository(dbpool))),
		TimesheetsHandler: timesheets.NewHandler(logger, timesheets.NewService(timesheets.NewPGRepository(dbpool))),
		AuditHandler:      audithttp.NewHandler(logger, audit.NewService(store)),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
