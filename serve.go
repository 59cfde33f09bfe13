package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"yamdb/internal/config"
	"yamdb/internal/database"
	"yamdb/internal/notify"
	"yamdb/internal/repositories"
	"yamdb/internal/server"
	"yamdb/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	cmd.Flags().String("port", "", "listen address, e.g. :8080 (env APP_PORT)")
	bindFlag(v, cmd, "APP_PORT", "port")
	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	rt, err := setup(v)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, logger := rt.cfg, rt.logger

	if err := cfg.RequireSecret(); err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(rt.db); err != nil {
			return err
		}
	}

	// --- Confirmation code store ---
	var codeStore repositories.CodeStore
	if cfg.CodeStore == config.CodeStoreRedis {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		codeStore = repositories.NewRedisCodeStore(rdb)
	}

	// --- Confirmation code delivery ---
	var notifier notify.Notifier
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{notify.ConfirmationQueue},
		}, logger)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		notifier = notify.NewQueueNotifier(mqClient)

		if err := mqClient.Consume(notify.ConfirmationQueue, notify.NewOutbox(logger).Handle); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, _ := server.NewApp(server.Deps{
		DB:        rt.db,
		CodeStore: codeStore,
		Notifier:  notifier,
		Registry:  registry,
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		CodeTTL:   cfg.CodeTTL,
		AccessLog: true,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		errCh <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}
