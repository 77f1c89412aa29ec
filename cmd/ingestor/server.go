package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/septivank/sensor-ingest/internal/api"
	"github.com/septivank/sensor-ingest/internal/config"
	"github.com/septivank/sensor-ingest/internal/mq"
	"github.com/septivank/sensor-ingest/internal/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func startServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	handler *api.Handler,
	reg *prometheus.Registry,
	logger *zap.Logger,
) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServicePort),
		Handler:           api.NewRouter(handler, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}
			logger.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// startConsumer runs the queue ingestion path when a broker and queue are configured
func startConsumer(
	lc fx.Lifecycle,
	conn *mq.Connection,
	cfg *config.Config,
	svc *service.IngestService,
	logger *zap.Logger,
) error {
	if conn == nil || cfg.RabbitMQ.IngestQueue == "" {
		return nil
	}

	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		Connection:       conn,
		Queue:            cfg.RabbitMQ.IngestQueue,
		DLQQueue:         cfg.RabbitMQ.DLQQueue,
		Exchange:         cfg.RabbitMQ.IngestExchange,
		RoutingKey:       cfg.RabbitMQ.IngestRoutingKey,
		PrefetchCount:    cfg.RabbitMQ.PrefetchCount,
		Logger:           logger.Named("consumer"),
		MessageProcessor: svc.ProcessMessage,
	})
	if err != nil {
		return err
	}

	consumer.RegisterLifecycle(lc)
	return nil
}
