package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vocablearn/internal/application/usecase"
	"vocablearn/internal/config"
	"vocablearn/internal/domain"
	"vocablearn/internal/infrastructure/cache"
	"vocablearn/internal/infrastructure/repository"
	"vocablearn/internal/infrastructure/security"
	"vocablearn/internal/platform/logger"
	handlers "vocablearn/internal/transport/http"
	"vocablearn/internal/transport/http/middleware"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logg.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logg.Fatal("Failed to connect to DB", "err", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Level{},
		&domain.Topic{},
		&domain.Word{},
		&domain.WordLearning{},
		&domain.UserTopic{},
	); err != nil {
		logg.Fatal("Failed to migrate DB", "err", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logg.Fatal("Failed to connect to Redis", "addr", cfg.RedisAddr, "err", err)
	}

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db, rdb)
	progressRepo := repository.NewProgressRepository(db)

	refreshStore := cache.NewRedisRefreshStore(rdb)
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret)

	authUsecase := usecase.NewAuthUsecase(userRepo, refreshStore, hasher, tokenManager, usecase.RegistrationDefaults{
		AvatarURL:  cfg.DefaultAvatarURL,
		Role:       cfg.DefaultRole,
		StartLevel: cfg.DefaultStartLevel,
	}, logg)
	progressUsecase := usecase.NewProgressUsecase(catalogRepo, progressRepo, userRepo, logg)

	authHandler := handlers.NewAuthHandler(authUsecase)
	levelHandler := handlers.NewLevelHandler(catalogRepo, progressUsecase)
	topicHandler := handlers.NewTopicHandler(catalogRepo, progressUsecase)
	wordHandler := handlers.NewWordHandler(catalogRepo, progressUsecase)
	limiter := middleware.NewRateLimiter(rdb)

	router := handlers.NewRouter(authUsecase, authHandler, levelHandler, topicHandler, wordHandler, limiter, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logg.Info("HTTP server running", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Failed to serve", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logg.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("Forced shutdown", "err", err)
	}
}
