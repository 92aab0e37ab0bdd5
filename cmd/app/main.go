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

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/auth"
	"github.com/BuzzLyutic/project-tracker-api/internal/config"
	"github.com/BuzzLyutic/project-tracker-api/internal/handler"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
	"github.com/BuzzLyutic/project-tracker-api/internal/service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаем логгер с уровнем из конфига
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to Database", zap.Error(err)) // дальнейшая работа теряет смысл
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping the Database", zap.Error(err))
	}
	logger.Info("Successfully connected to the Database!")

	if err := repo.Migrate(context.Background(), pool); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Слои: репозитории -> движок доступа -> сервисы -> хэндлеры
	projectRepo := repo.NewProjectRepo(pool)
	membershipRepo := repo.NewMembershipRepo(pool)
	evaluator := access.NewEvaluator(membershipRepo, logger)

	router := handler.NewRouter(handler.Services{
		Users:       service.NewUserService(repo.NewUserRepo(pool)),
		Projects:    service.NewProjectService(projectRepo, membershipRepo, evaluator),
		Memberships: service.NewMembershipService(membershipRepo, projectRepo, evaluator),
		Tasks:       service.NewTaskService(repo.NewTaskRepo(pool), projectRepo, evaluator),
	}, auth.NewVerifier(cfg.JWTSecret), logger)

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
		return
	}
	logger.Info("Server stopped successfully!")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
