package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/septivank/sensor-ingest/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	loadEnvFile()

	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			config.Load,
			newLogger,
			ProvideSecretResolver,
			ProvideDBPool,
			ProvideRepository,
			ProvideRegistry,
			ProvideMetrics,
			ProvideAlertPolicy,
			ProvideValidator,
			ProvideNotifier,
			ProvideMQConnection,
			ProvidePublisher,
			ProvideIngestService,
			ProvideHandler,
		),
		fx.Invoke(startServer, startConsumer),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		if startCtx.Err() == context.DeadlineExceeded {
			fmt.Fprintln(os.Stderr, "application start timeout: a dependency (database, secret store or RabbitMQ) is not reachable")
		}
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintln(os.Stderr, "error stopping app:", err)
	}
}

// loadEnvFile loads the first .env found in the working directory or its parents
func loadEnvFile() {
	envPaths := []string{".env"}
	if workDir, err := os.Getwd(); err == nil {
		parentDir := filepath.Dir(workDir)
		envPaths = append(envPaths,
			filepath.Join(workDir, ".env"),
			filepath.Join(parentDir, ".env"),
			filepath.Join(filepath.Dir(parentDir), ".env"),
		)
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			absPath, _ := filepath.Abs(envPath)
			fmt.Printf("Loaded environment from: %s\n", absPath)
			return
		}
	}

	fmt.Println("No .env file found, using system environment variables")
}
