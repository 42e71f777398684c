package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lottery_bot/config"
	"lottery_bot/logger"
	"lottery_bot/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(logger.Configuration{
		LogFile:   cfg.LogFile,
		ErrorFile: cfg.ErrorLogFile,
		Level:     cfg.LogLevel,
		Console:   true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := services.Run(ctx, cfg); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
	logger.Info("bot stopped")
}
