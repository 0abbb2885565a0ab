package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"valxml/internal/blob"
	"valxml/internal/catalog"
	"valxml/internal/ingest"
	"valxml/internal/lock"
	"valxml/internal/message"
	"valxml/internal/notify"
	"valxml/internal/ops"
	"valxml/internal/pipeline"
	"valxml/internal/pipeline/metrics"
	"valxml/internal/platform/config"
	"valxml/internal/platform/httpserver"
	"valxml/internal/platform/logger"
	"valxml/internal/platform/postgres"
	platformredis "valxml/internal/platform/redis"
	"valxml/internal/validate"
)

// main wires the processing worker: it consumes dispatched file tasks, runs
// them through the validation pipeline, and serves the ops endpoints.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	blobs, err := blob.NewMinio(cfg.Minio)
	if err != nil {
		log.Fatalf("minio: %v", err)
	}

	engine := validate.NewEngine(catalog.NewPostgres(pool), validate.DefaultOptions())
	proc := pipeline.New(
		engine,
		message.NewPostgres(pool),
		blobs,
		notify.NewEmitter(blobs),
		lock.NewRedisLocker(redisClient.Client),
		metrics.New(),
		log,
	)

	consumer, err := ingest.NewKafkaConsumer(cfg.Kafka, ingest.NewHandler(proc, log), log)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}

	srv := httpserver.New(cfg.OpsAddr, ops.NewRouter(map[string]ops.ReadyCheck{
		"postgres": pool.Ping,
		"redis":    redisClient.Health,
	}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("consuming %s as group %s", cfg.Kafka.Topic, cfg.Kafka.Group)
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		log.Printf("ops server on %s", cfg.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker stopped: %v", err)
	}
	log.Printf("worker stopped")
}
