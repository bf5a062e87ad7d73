package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/app/background"
	"github.com/LavaJover/shvark-moderation-service/internal/app/setup"
	"github.com/LavaJover/shvark-moderation-service/internal/config"
	"github.com/LavaJover/shvark-moderation-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()

	deps, err := setup.InitializeDependencies(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to init dependencies", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			appLogger.Error("failed to close dependencies", "error", err.Error())
		}
	}()

	useCases := setup.InitializeUseCases(deps)

	// Creating gRPC server
	authenticator := grpcapi.NewAuthenticator(cfg.Auth.JWTSecret)
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(authenticator.UnaryInterceptor()))
	grpcapi.RegisterModerationServiceServer(grpcServer, grpcapi.NewModerationHandler(useCases.ModerationUsecase, appLogger))

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		appLogger.Error("failed to listen", "error", err.Error())
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.MetricsServer.Host, cfg.MetricsServer.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	tasks := background.NewBackgroundTasks(
		useCases.ModerationUsecase,
		deps.Subscriber,
		cfg.Moderation.AutoResolveInterval,
		appLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("gRPC server started", "addr", lis.Addr().String())
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		appLogger.Info("metrics server started", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return tasks.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		appLogger.Info("shutting down")
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("moderation service stopped", "error", err.Error())
	}
}
