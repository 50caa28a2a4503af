package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"deedflow/internal/audit"
	"deedflow/internal/contract"
	"deedflow/internal/platform/config"
	"deedflow/internal/platform/httpserver"
	jwttoken "deedflow/internal/platform/jwt"
	"deedflow/internal/platform/logger"
	"deedflow/internal/platform/metrics"
	platformredis "deedflow/internal/platform/redis"
	"deedflow/internal/transaction"
	"deedflow/internal/transaction/handler"
	httptransport "deedflow/internal/transport/http"
)

const auditBufferSize = 256

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in internal/transaction.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	var store transaction.Store = transaction.NewInMemoryStore()
	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		store = transaction.NewPostgresStore(db)
	}

	var locker transaction.Locker = transaction.NewShardedLocker()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		locker = platformredis.NewLocker(redisClient)
	}

	var sink audit.Sink = audit.NewLogSink(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	publisher := audit.NewPublisher(auditBufferSize)
	worker := audit.NewWorker(sink, publisher.Inbox(), log)

	m := metrics.New()
	service := transaction.NewService(
		store,
		locker,
		contract.NewTemplateGenerator(),
		log,
		transaction.WithMetrics(m),
		transaction.WithAuditFanout(publisher),
	)

	jwtService := jwttoken.NewService(cfg.JWTSigningKey, "deedflow")
	txHandler := handler.New(service, log, m, jwtService)
	router := httptransport.NewRouter(txHandler)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting deedflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
