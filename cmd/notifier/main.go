package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sneakpeak/storefront/internal/config"
	"github.com/sneakpeak/storefront/internal/delivery/events"
	"github.com/sneakpeak/storefront/internal/notifier"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting receipt notifier service...")

	consumer, err := events.NewConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS consumer", err)
	}
	defer consumer.Close()

	streamConfig := events.NewStreamConfig(consumer.JetStream(), appLogger)
	if err := streamConfig.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure stream", err)
	}
	if err := streamConfig.EnsureConsumer(); err != nil {
		appLogger.Fatal("Failed to ensure consumer", err)
	}

	mailer := notifier.NewMailer(cfg.SMTP, appLogger)
	worker := notifier.NewWorker(mailer, appLogger)

	if err := consumer.Subscribe(worker.HandleEvent); err != nil {
		appLogger.Fatal("Failed to subscribe to order events", err)
	}

	appLogger.Info("Receipt notifier started and listening for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down receipt notifier...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := worker.Shutdown(ctx); err != nil {
		appLogger.Warnf("Worker shutdown incomplete: %v", err)
	}

	appLogger.Info("Receipt notifier stopped gracefully")
}
