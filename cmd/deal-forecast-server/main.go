package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/deal-forecast/internal/logging"
	"github.com/iwvelando/deal-forecast/internal/server"
	"github.com/iwvelando/deal-forecast/internal/store"
	"github.com/iwvelando/deal-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	showVersion := flag.Bool("version", false, "print the version and exit")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxUploadSize := flag.String("max-upload-size", "", "upload size limit override (e.g. 512K, 2M)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if err := applyUploadOverride(cfg, *maxUploadSize); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid max-upload-size %s\", \"error\": \"%v\"}\n", *maxUploadSize, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	deals, err := store.Open(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to open deal store",
			zap.String("op", "main"),
			zap.String("path", cfg.DatabasePath),
			zap.Error(err),
		)
	}
	defer func() {
		if err := deals.Close(); err != nil {
			logger.Warn("failed to close deal store", zap.String("op", "main"), zap.Error(err))
		}
	}()

	srv := &http.Server{
		Handler: server.NewHandler(logger, server.Options{
			MaxUploadSize:  cfg.UploadSizeBytes(),
			Version:        version,
			Store:          deals,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		logger.Error("failed to listen",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.Error(err),
		)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving deal editor",
		zap.String("op", "main"),
		zap.String("address", ln.Addr().String()),
		zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		zap.String("database", cfg.DatabasePath),
		zap.String("version", version),
	)

	if err := serve(ctx, srv, ln, logger); err != nil {
		logger.Error("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
