package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apostamax/affiliate-service/internal/app/background"
	"github.com/apostamax/affiliate-service/internal/app/setup"
	"github.com/apostamax/affiliate-service/internal/delivery/http/handlers"
	publisher "github.com/apostamax/affiliate-service/internal/infrastructure/kafka"
	"github.com/apostamax/affiliate-service/internal/infrastructure/migrate"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}

	if deps.Config.MigrationsPath != "" {
		if err := migrate.RunMigrations(deps.DB, deps.Config.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// warm the table snapshot before the first event arrives
	if _, err := deps.Tables.Refresh(ctx); err != nil {
		log.Fatalf("failed to load commission tables: %v", err)
	}

	usecases := setup.InitializeUseCases(deps)

	consumer := publisher.NewTransactionConsumer(deps.Subscriber, usecases.Engine, "affiliate-engine")
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("failed to start transaction consumer: %v", err)
	}

	tasks := background.NewBackgroundTasks(
		usecases.Settlement,
		usecases.Inactivity,
		deps.Tables,
		deps.Config.Engine.SettlementCron,
		deps.Config.Engine.InactivityCron,
		deps.Config.Engine.ConfigRefreshSecs,
	)
	if err := tasks.StartAll(ctx); err != nil {
		log.Fatalf("failed to start background tasks: %v", err)
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(deps.DB).Register(mux)

	addr := fmt.Sprintf("%s:%s", deps.Config.HTTPServer.Host, deps.Config.HTTPServer.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("http listener up", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err.Error())
			stop()
		}
	}()

	slog.Info("affiliate engine started", "env", deps.Config.Env)
	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err.Error())
	}
	if err := deps.Redis.Close(); err != nil {
		slog.Error("redis close failed", "error", err.Error())
	}
	os.Exit(0)
}
