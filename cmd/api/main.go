package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/word-battle/internal/arena"
	"github.com/jwebster45206/word-battle/internal/config"
	"github.com/jwebster45206/word-battle/internal/handlers"
	"github.com/jwebster45206/word-battle/internal/logger"
	"github.com/jwebster45206/word-battle/internal/services/events"
	"github.com/jwebster45206/word-battle/internal/storage"
	"github.com/jwebster45206/word-battle/pkg/question"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Word Battle API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"match_ttl", cfg.MatchTTL)

	bank := question.Default()
	if cfg.QuestionsFile != "" {
		bank, err = question.LoadFile(cfg.QuestionsFile)
		if err != nil {
			log.Error("Failed to load question bank", "error", err, "path", cfg.QuestionsFile)
			os.Exit(1)
		}
	}
	log.Info("Question bank loaded", "questions", bank.Len())

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.MatchTTL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	broadcaster := events.NewBroadcaster(store.Client(), log)
	manager := arena.NewManager(bank, store, broadcaster, log,
		arena.WithTimings(cfg.Timings),
		arena.WithTTL(cfg.MatchTTL))

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(handlers.Deps{
			Storage:    store,
			Arena:      manager,
			Subscriber: broadcaster,
			Bank:       bank,
			Logger:     log,
		}),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE endpoint holds connections open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	manager.Close()
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
