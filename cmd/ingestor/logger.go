package main

import (
	"github.com/septivank/sensor-ingest/internal/config"
	"github.com/septivank/sensor-ingest/internal/logging"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
}
