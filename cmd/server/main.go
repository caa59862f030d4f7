// Command server runs the document verification service.
//
// The KV substrate backing the request collection is selected by env:
// DATABASE_URL wins, then REDIS_URL, then process memory. Kafka lifecycle
// events are published when KAFKA_BROKERS is set.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"eduverify/internal/platform/config"
	"eduverify/internal/platform/database"
	"eduverify/internal/platform/httpserver"
	"eduverify/internal/platform/kafka/producer"
	"eduverify/internal/platform/logger"
	platformredis "eduverify/internal/platform/redis"
	"eduverify/internal/reports"
	httptransport "eduverify/internal/transport/http"
	"eduverify/internal/verification/document"
	"eduverify/internal/verification/events"
	verificationhandler "eduverify/internal/verification/handler"
	"eduverify/internal/verification/service"
	"eduverify/internal/verification/store"
	"eduverify/pkg/platform/middleware/ratelimit"
	"eduverify/pkg/platform/middleware/staff"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	kv, err := selectKV(ctx, pool, redisClient, log)
	if err != nil {
		return err
	}

	var sink events.Sink = producer.NewNoopProducer()
	if cfg.KafkaBrokers != "" {
		kafkaCfg := producer.DefaultConfig()
		kafkaCfg.Brokers = cfg.KafkaBrokers
		kafkaProducer, err := producer.New(kafkaCfg, log)
		if err != nil {
			return err
		}
		defer kafkaProducer.Close() //nolint:errcheck
		sink = kafkaProducer
	}

	st := store.New(kv, config.StorageKey, log)
	publisher := events.NewPublisher(sink, cfg.EventTopic, log)
	svc := service.New(st, document.NewRenderer(cfg.Institution),
		service.SimulatedGateway{}, service.LogNotifier{Logger: log}, publisher, log)

	issuer := staff.NewTokenIssuer(cfg.JWTSigningKey, cfg.StaffTokenTTL)
	submitLimiter := ratelimit.New(cfg.SubmitRateLimit, time.Minute)

	var health []httptransport.HealthCheck
	if pool != nil {
		health = append(health, httptransport.HealthCheck{Name: "database", Check: pool.Health})
	}
	if redisClient != nil {
		health = append(health, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Verification: verificationhandler.NewHandler(svc, issuer, submitLimiter, log),
		Reports:      reports.NewHandler(svc, cfg.AdminToken, log),
		Health:       health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if redisClient != nil {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					redisClient.RecordPoolStats()
				}
			}
		})
	}

	return g.Wait()
}

// selectKV picks the collection substrate: Postgres when configured, then
// Redis, then process memory.
func selectKV(ctx context.Context, pool *database.Pool, redisClient *platformredis.Client, log *slog.Logger) (store.KV, error) {
	if pool != nil {
		pg := store.NewPostgresKV(pool.DB())
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info("request collection backed by postgres")
		return pg, nil
	}
	if redisClient != nil {
		log.Info("request collection backed by redis")
		return store.NewRedisKV(redisClient.Client), nil
	}
	log.Warn("request collection held in process memory, data is lost on restart")
	return store.NewMemoryKV(), nil
}
