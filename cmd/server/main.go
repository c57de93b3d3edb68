package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/api"
	"github.com/yourusername/streamfetch-go/internal/app"
	"github.com/yourusername/streamfetch-go/internal/domain"
	"github.com/yourusername/streamfetch-go/internal/infrastructure"
	"github.com/yourusername/streamfetch-go/pkg/logger"
)

const version = "1.0.0"

var (
	serverMode = flag.Bool("server-mode", false, "Internal flag: run in server mode (called by daemon)")
	foreground = flag.Bool("foreground", false, "Run in the foreground instead of detaching")
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	if !*serverMode && !*foreground {
		startAsDaemon()
		return
	}

	if err := runServer(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// startAsDaemon re-executes the binary in server mode, detached from the terminal
func startAsDaemon() {
	execPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	args := []string{"-server-mode"}
	if *configPath != "" {
		args = append(args, "-config", *configPath)
	}

	cmd := exec.Command(execPath, args...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()
	detach(cmd)

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", os.DevNull, err)
		os.Exit(1)
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server started as daemon (PID: %d)\n", cmd.Process.Pid)
	os.Exit(0)
}

func runServer() error {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	console, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer console.Sync()

	// Category files are optional; an empty logs_dir keeps console output only.
	var multiLog *logger.MultiLogger
	if config.Logging.LogsDir != "" {
		multiLog, err = logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Logging.LogsDir,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize category logs: %w", err)
		}
		defer multiLog.Close()
	}

	logAdapter := logger.NewLoggerAdapter(console, multiLog)
	log := logAdapter.Server()

	log.Info("Starting StreamFetch server",
		zap.String("version", version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("storage", string(config.Storage.Type)))

	repo, err := infrastructure.NewSQLiteRepository(config.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	slots, closeSlots := openSlotStore(config, repo, log)
	defer closeSlots()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var generator domain.TextGenerator
	gemini, err := infrastructure.NewGeminiGenerator(ctx, &config.Metadata, logAdapter.Lookup())
	switch {
	case errors.Is(err, infrastructure.ErrMissingAPIKey):
		log.Warn("No metadata API key configured, lookups will return placeholder records")
	case err != nil:
		log.Warn("Metadata service unavailable", zap.Error(err))
	default:
		generator = gemini
	}

	library := app.NewLibraryStore(slots, config.Storage.LibraryKey, logAdapter.Library())
	fetcher := app.NewMetadataFetcher(generator, logAdapter.Lookup())
	session := app.NewSession(fetcher, library, logAdapter.Lookup())

	notifier := infrastructure.NewNotificationService(&config.Notify, logAdapter.Download())
	downloads := app.NewDownloadSimulator(
		repo,
		infrastructure.NewBlobWriter(config.Download.OutputDir),
		&config.Download,
		logAdapter.Download(),
	).WithNotifier(notifier)

	if config.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Services{
		Session:   session,
		Library:   library,
		Fetcher:   fetcher,
		Downloads: downloads,
	}, logAdapter)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Received shutdown signal")
	case err := <-serveErr:
		logAdapter.LogError(logger.CategoryServer, "HTTP server failed", zap.Error(err))
		downloads.Stop()
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Websocket subscribers see their channels close once the simulator stops.
	downloads.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

// openSlotStore picks the library backend. The returned func releases it.
func openSlotStore(config *domain.Config, repo *infrastructure.SQLiteRepository, log *zap.Logger) (domain.SlotStore, func()) {
	switch config.Storage.Type {
	case domain.StorageRedis:
		store := infrastructure.NewRedisSlotStoreFromConfig(&config.Storage)
		if err := store.Ping(); err != nil {
			log.Warn("Redis not reachable, library reads will return empty until it is",
				zap.String("addr", config.Storage.RedisAddr), zap.Error(err))
		}
		return store, func() { store.Close() }
	case domain.StorageMemory:
		return infrastructure.NewMemorySlotStore(), func() {}
	default:
		return repo, func() {}
	}
}
