// Package main is the entry point for the return-order settlement API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/domain/auth"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/return_order"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/config"
	v1 "github.com/medtraie/Gaztesto-sub001/internal/infrastructure/http/v1"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres/document_repo"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres/register_repo"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
	"github.com/medtraie/Gaztesto-sub001/pkg/numerator"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting settlement server", "env", cfg.App.Env, "version", version)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.AppName = cfg.App.Name
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}

	txManager := postgres.NewTxManager(pool)

	// --- Settlement engine ---
	settlementCfg, err := cfg.Settlement.Domain()
	if err != nil {
		log.Fatalw("invalid settlement config", "error", err)
	}

	service, err := return_order.NewService(return_order.Deps{
		SupplyOrders: document_repo.NewSupplyOrderRepo(txManager),
		BottleTypes:  catalog_repo.NewBottleTypeRepo(txManager),
		Drivers:      catalog_repo.NewDriverRepo(txManager),
		Settlements:  document_repo.NewSettlementRepo(txManager),
		Ledger:       register_repo.NewLedgerRepo(txManager),
		Stock:        register_repo.NewStockRepo(txManager),
		Numerator:    numerator.New(txManager.ContextQuerier(), numerator.WithRangeQuerier(pool)),
		TxManager:    txManager,
	}, settlementCfg)
	if err != nil {
		log.Fatalw("failed to build settlement service", "error", err)
	}

	routerCfg := v1.RouterConfig{
		Logger:       log,
		Database:     pool,
		AppName:      cfg.App.Name,
		Version:      version,
		ReturnOrders: service,
	}

	// --- Audit ---
	if cfg.Audit.Enabled {
		audit, err := postgres.NewAuditService(txManager, cfg.Audit.CompressThreshold)
		if err != nil {
			log.Fatalw("failed to build audit service", "error", err)
		}
		service.Hooks().OnAfterCommit(func(ctx context.Context, s *return_order.Settlement) error {
			return audit.Snapshot(ctx, return_order.DocumentType, s.ID, postgres.AuditActionCommit, s)
		})
		routerCfg.Audit = audit
	}

	// --- Idempotency ---
	if cfg.Idempotency.Enabled {
		store := postgres.NewIdempotencyStore(txManager, cfg.Idempotency.TTL)
		routerCfg.Idempotency = store
		go cleanupIdempotencyKeys(ctx, store, log)
	}

	// --- JWT ---
	if cfg.JWT.Secret != "" {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtConfig.Issuer = cfg.JWT.Issuer
		routerCfg.JWTValidator = auth.NewJWTService(jwtConfig)
	} else {
		log.Warn("jwt.secret not set, API is unauthenticated")
	}

	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// cleanupIdempotencyKeys drops expired keys once an hour.
func cleanupIdempotencyKeys(ctx context.Context, store *postgres.IdempotencyStore, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx)
			if err != nil {
				log.Warnw("idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.Infow("idempotency keys expired", "deleted", n)
			}
		}
	}
}
