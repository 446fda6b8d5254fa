package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"biocareer/opportunity-service/internal/cache"
	"biocareer/opportunity-service/internal/db"
	"biocareer/opportunity-service/internal/feed"
	"biocareer/opportunity-service/internal/grpcserver"
	"biocareer/opportunity-service/internal/httpserver"
	"biocareer/opportunity-service/internal/kanban"
	"biocareer/opportunity-service/internal/profile"
	"biocareer/opportunity-service/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, gRPC health endpoint and provider probe",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conns, err := db.Open(ctx, cfg.DatabaseURL, cfg.RedisURL, logger)
		if err != nil {
			return err
		}
		defer conns.Close()

		var geoCache cache.Cache
		var events kanban.Publisher
		if conns.Redis != nil {
			geoCache = cache.NewRedis(conns.Redis, "geocode:")
			events = kanban.NewRedisPublisher(conns.Redis)
		}

		p, err := newPipeline(cfg, geoCache, logger)
		if err != nil {
			return err
		}

		prof, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			return err
		}

		routes := []httpserver.Registrar{
			feed.NewHandler(p.feed, p.catalogue, logger),
			profile.NewHandler(prof),
		}
		if conns.Postgres != nil {
			store := kanban.NewPostgresStore(conns.Postgres)
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("tracker migrate: %w", err)
			}
			routes = append(routes, kanban.NewHandler(kanban.NewService(store, events, logger), logger))
		}

		grpcSrv := grpcserver.New(logger)
		probe := scheduler.New(p.fetcher, cfg.ProviderProbeSpec, logger, grpcSrv.SetProviderStatus)
		if err := probe.Start(ctx); err != nil {
			return err
		}
		defer probe.Stop()

		httpSrv := httpserver.New(":"+cfg.Port, cfg.AllowedOrigins(), probe.Status, logger, routes...)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(httpSrv.ListenAndServe)
		if cfg.GRPCPort != "" {
			lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
			if err != nil {
				return fmt.Errorf("grpc listen: %w", err)
			}
			g.Go(func() error { return grpcSrv.Serve(lis) })
		}
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			probe.Stop()
			grpcSrv.Stop()
			return httpSrv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped with error", zap.Error(err))
			return err
		}
		logger.Info("stopped")
		return nil
	},
}
