// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/config"
	"github.com/unclebandit/storefront-backend/internal/logger"
	"github.com/unclebandit/storefront-backend/internal/queue"
)

type subscriber interface {
	Subscribe(topic string, handler func(payload any) error) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	appLogger, err := logger.New(cfg.Logger, cfg.Server.AppEnv)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.AMQP.URL == "" {
		appLogger.Fatal("AMQP_URL must be set for the worker")
	}

	q, err := queue.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer q.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("worker running, waiting for customer events...", zap.String("queue", cfg.AMQP.Queue))
	processed, err := run(ctx, q, appLogger)
	if err != nil {
		appLogger.Fatal("worker failed", zap.Error(err))
	}
	appLogger.Info("worker stopped", zap.Int64("processed", processed))
}

// run feeds every event on the queue to the audit handler until ctx is done
// and returns how many events were handled.
func run(ctx context.Context, sub subscriber, log *zap.Logger) (int64, error) {
	var processed atomic.Int64
	audit := queue.AuditHandler(log)

	err := sub.Subscribe(queue.AllTopics, func(payload any) error {
		if err := audit(payload); err != nil {
			return err
		}
		processed.Add(1)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("subscribe: %w", err)
	}

	<-ctx.Done()
	return processed.Load(), nil
}
