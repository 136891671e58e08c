// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/auth"
	"github.com/unclebandit/storefront-backend/internal/config"
	"github.com/unclebandit/storefront-backend/internal/controller"
	"github.com/unclebandit/storefront-backend/internal/db"
	"github.com/unclebandit/storefront-backend/internal/handler"
	"github.com/unclebandit/storefront-backend/internal/logger"
	"github.com/unclebandit/storefront-backend/internal/queue"
	"github.com/unclebandit/storefront-backend/internal/repository"
	"github.com/unclebandit/storefront-backend/internal/server"
	"github.com/unclebandit/storefront-backend/internal/service"
	"github.com/unclebandit/storefront-backend/internal/web"
)

func main() {
	// Load .env
	envErr := godotenv.Load()

	cfg := config.Load()

	appLogger, err := logger.New(cfg.Logger, cfg.Server.AppEnv)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Sync()

	if envErr != nil {
		appLogger.Info("no .env file found, relying on OS environment variables")
	}
	if cfg.JWT.UsesDefaultSecret() {
		appLogger.Warn("JWT_SECRET is not set, falling back to the built-in default secret")
	}

	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close(gdb)
	appLogger.Info("connected to PostgreSQL")

	q, closeQueue := setupQueue(cfg.AMQP, appLogger)
	defer closeQueue()

	customerService := &service.CustomerService{
		CustomerRepo: repository.NewCustomerRepository(gdb),
		Queue:        q,
		Log:          appLogger,
	}

	router := server.NewRouter(server.Deps{
		Customers: controller.NewCustomerController(customerService, auth.NewVerifier(cfg.JWT.SecretKey), appLogger),
		Products:  handler.NewProductHandler(appLogger),
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return db.Ping(ctx, gdb)
		}, appLogger),
		Shell: web.NewShellHandler(appLogger),
		Log:   appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}

// setupQueue publishes to RabbitMQ when AMQP_URL is set. Otherwise events stay
// in process and are written to the audit log directly.
func setupQueue(cfg config.AMQPConfig, log *zap.Logger) (queue.Queue, func()) {
	if cfg.URL != "" {
		aq, err := queue.DialAMQP(cfg.URL, cfg.Queue, log)
		if err == nil {
			log.Info("publishing customer events to rabbitmq", zap.String("queue", cfg.Queue))
			return aq, func() { aq.Close() }
		}
		log.Warn("rabbitmq unavailable, using in-process queue", zap.Error(err))
	}

	mq := queue.NewInMemoryQueue(log)
	mq.Subscribe(queue.AllTopics, queue.AuditHandler(log))
	return mq, mq.Drain
}
