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

	"github.com/gofrs/uuid"

	"taskforge/backend/internal/cache"
	"taskforge/backend/internal/config"
	"taskforge/backend/internal/database"
	"taskforge/backend/internal/handlers"
	"taskforge/backend/internal/monitoring"
	"taskforge/backend/internal/services"
	"taskforge/backend/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := cache.NewRedisClient(cfg)
	insightsCache := cache.NewInsightsCache(redisClient)

	tokens := services.NewTokenIssuer(cfg.Auth)
	authService := services.NewAuthService(cfg.Auth.BCryptCost)
	userService := services.NewUserService(cfg.Auth.BCryptCost)
	taskService := services.NewTaskService()
	insightService := services.NewCachedInsightService(services.NewInsightService(), insightsCache)
	reportService := services.NewReportService()

	jobQueue := worker.NewJobQueue(redisClient)
	w := worker.NewWorker(worker.WorkerConfig{
		RedisClient: redisClient,
		Queues:      cfg.Worker.Queues,
	})
	w.RegisterHandler(worker.JobTypeInsightsRefresh, func(ctx context.Context, job *worker.Job) error {
		orgID, err := uuid.FromString(job.Payload["organization_id"])
		if err != nil {
			return err
		}
		return insightService.Refresh(db.WithContext(ctx), orgID)
	})
	w.Start(cfg.Worker.Concurrency)

	health := monitoring.NewHealthChecker()
	health.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	health.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	router := handlers.NewRouter(cfg, db, handlers.RouterDeps{
		Auth:     handlers.NewAuthHandler(db, authService, tokens),
		Tasks:    handlers.NewTaskHandler(db, taskService, jobQueue, cfg.Worker.Queues[0]),
		Users:    handlers.NewUserHandler(db, userService),
		Insights: handlers.NewInsightHandler(db, insightService),
		Reports:  handlers.NewReportHandler(db, reportService),
		Health:   health,
		Tokens:   tokens,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server running on %s", cfg.GetServerAddr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	w.Stop()
	if err := redisClient.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
}
