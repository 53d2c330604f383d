package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/docqa/docqa/internal/api"
	"github.com/docqa/docqa/internal/config"
	"github.com/docqa/docqa/internal/rag"
	"github.com/docqa/docqa/internal/service"
	"github.com/docqa/docqa/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize raw file storage
	files, err := store.NewFileStore(cfg.Storage.Documents)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Persistence gateway: the only store handle the services share
	st := store.New(db, files, cfg.Chats.MaxPerUser)

	// External answer/ingestion pipeline
	engine := rag.NewClient(cfg.RAG.BaseURL, cfg.RAG.Timeout)

	// Initialize services
	authService := service.NewAuthService(st, cfg.Auth)
	ingestService := service.NewIngestService(st, engine, cfg, logger)
	chatService := service.NewChatService(st)
	queryService := service.NewQueryService(st, engine, cfg, logger)

	// Setup router
	router := api.SetupRouter(authService, ingestService, chatService, queryService, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Address()),
			zap.Int("max_chats_per_user", st.Chats.MaxChats()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
