package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"valxml/internal/ingest"
	"valxml/internal/platform/config"
	"valxml/internal/platform/logger"
)

// main watches the intake directory and produces a processing task for every
// new XML file. Processing itself happens in the worker binary.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher, err := ingest.NewKafkaDispatcher(cfg.Kafka)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	defer dispatcher.Close()

	watcher := ingest.NewWatcher(cfg.WatchDir, dispatcher, log)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("watcher stopped: %v", err)
	}
	log.Printf("watcher stopped")
}
