package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"itshere/auth"
	"itshere/infrastructure/web"
	"itshere/internal"
	"itshere/moderation"
	"itshere/observability"
	"itshere/repositories"
	"itshere/services"
	"itshere/storage"
)

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// main is a thin wrapper: run() owns initialization and shutdown so
	// deferred cleanup (database close included) always executes.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := internal.NewLogger(config.LogLevel)
	ctx := context.Background()

	// 2. Storage (BadgerDB + Bluge index)
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	monitor := observability.NewMonitor(logger)

	if logger.Enabled(ctx, slog.LevelDebug) && config.DebugPort > 0 {
		url := fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort)
		logger.Info("Debug Badger inspector available", "url", url)
		internal.StartDebugServer(db, config.DebugPort, "/inspect", ChatMapper, func() map[string]any {
			stats := monitor.GetLatest()
			return map[string]any{
				"requests_served":  stats.RequestsServed,
				"requests_per_sec": fmt.Sprintf("%.1f", stats.RequestsPerSec),
				"client_errors":    stats.ClientErrors,
				"server_errors":    stats.ServerErrors,
				"alloc_mem_mb":     stats.AllocMemMb,
				"num_gc":           stats.NumGC,
			}
		})
	}

	// 3. Repositories
	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db, logger)
	messageRepository, err := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		_ = messageRepository.Close()
	}()
	postRepository := repositories.NewPostRepository(db, blugeWriter, logger, config.SearchLimit)

	// 4. Auth & moderation
	codec := auth.NewCodec([]byte(config.JWTSecret), config.AuthTokenDuration)
	gate := auth.NewGate(codec)

	censor, err := moderation.NewCensor(config.Words(), charReplacement)
	if err != nil {
		return exitConfig, fmt.Errorf("censor init failed: %w", err)
	}

	imageStore, err := storage.NewImageStore(config.ImageDir, logger)
	if err != nil {
		return exitRuntime, err
	}

	// 5. Services & HTTP surface
	authService := services.NewAuthService(userRepository, codec)
	chatService := services.NewChatService(userRepository, roomRepository, messageRepository, censor, logger)
	postService := services.NewPostService(postRepository, userRepository)
	accountService := services.NewAccountService(userRepository)

	server := web.NewServer(authService, chatService, postService, accountService, imageStore, gate, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: monitor.Middleware(server.Router()),
	}

	// 6. Signals & lifecycle
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go monitor.Listen(ctx)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped cleanly")
	return exitOK, nil
}
