package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/shop-sphere/internal/catalog"
	"github.com/fjod/shop-sphere/internal/config"
	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/effects"
	"github.com/fjod/shop-sphere/internal/events"
	h "github.com/fjod/shop-sphere/internal/http"
	"github.com/fjod/shop-sphere/internal/logger"
	"github.com/fjod/shop-sphere/internal/persist"
	"github.com/fjod/shop-sphere/internal/state"
	"github.com/fjod/shop-sphere/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const activityBuffer = 256

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	zap.ReplaceGlobals(zl)

	code := start(cfg, zl)
	_ = zl.Sync()
	os.Exit(code)
}

// start returns the process exit code once run has released its resources.
func start(cfg *config.Config, zl *zap.Logger) int {
	if err := run(cfg, zl); err != nil {
		zl.Error("storefront stopped with error", zap.Error(err))
		return 1
	}
	zl.Info("storefront exited")
	return 0
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	kv, err := storage.Open(openCtx, cfg.Storage)
	cancel()
	if err != nil {
		return err
	}
	defer kv.Close()
	zl.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	persister := persist.New(kv, zl.Named("persist"))
	store := state.NewStore(persister.Hydrate(ctx))
	store.Subscribe(persister.Observe)

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), activityBuffer, zl.Named("events"))
		store.Subscribe(publisher.Observe)
		g.Go(func() error { return publisher.Run(gctx) })
		zl.Info("activity stream enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	policy := effects.LastArrivalWins
	if cfg.CatalogDropStale {
		policy = effects.DropSuperseded
	}
	client := catalog.NewClient(cfg.CatalogBaseURL, cfg.RequestTimeout)
	demo := domain.Credentials{Username: cfg.DemoUsername, Password: cfg.DemoPassword}

	router := h.NewRouter(h.Deps{
		Store:          store,
		Catalog:        effects.NewCatalog(client, store, policy, zl.Named("catalog")),
		Auth:           effects.NewAuth(client, store, demo, zl.Named("auth")),
		Log:            zl.Named("http"),
		RequestTimeout: cfg.RequestTimeout,
		MaxBodySize:    cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		zl.Info("storefront starting", zap.String("port", cfg.HTTPPort), zap.String("stale_policy", policy.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
