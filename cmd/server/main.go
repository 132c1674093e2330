package main

import (
	"LostFound/internal/cache"
	"LostFound/internal/config"
	"LostFound/internal/events"
	"LostFound/internal/handlers"
	"LostFound/internal/repo"
	"LostFound/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// кэш совпадений: Redis, если задан REDIS_URL
	var matchCache cache.MatchCache = cache.Nop{}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			sugar.Warnw("redis unavailable, match cache disabled", "error", err)
		} else {
			defer client.Close()
			matchCache = cache.NewRedisMatchCache(client, cfg.MatchCacheTTL)
		}
	}

	// события: Kafka, если заданы брокеры, иначе только лог
	var publisher events.Publisher = events.LogPublisher{Logger: sugar}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			sugar.Errorw("Failed to close event publisher", "error", err)
		}
	}()

	userRepo := repo.NewUserRepository(gormDB)
	itemRepo := repo.NewItemRepository(gormDB)

	userService := service.NewUserService(userRepo, cfg)
	itemService := service.NewItemService(itemRepo, userRepo, matchCache, sugar)
	chatService := service.NewChatService(
		repo.NewTxRunner(gormDB),
		repo.NewConversationRepository(gormDB),
		repo.NewMessageRepository(gormDB),
		userRepo,
		publisher,
		sugar,
	)

	h := handlers.NewHandler(userService, itemService, chatService, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{Addr: addr, Handler: h.Router, ReadHeaderTimeout: 10 * time.Second}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"MatchCache", cfg.RedisURL != "",
		"KafkaBrokers", cfg.KafkaBrokers,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
