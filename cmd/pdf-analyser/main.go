package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/cangvel/pdf-analyser/internal/config"
	"github.com/cangvel/pdf-analyser/internal/logging"
	"github.com/cangvel/pdf-analyser/internal/mcp"
	"github.com/cangvel/pdf-analyser/internal/pdf"
	"github.com/cangvel/pdf-analyser/internal/pdf/wrapper"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newAnalyser wires the configured backends into an analyser
func newAnalyser(cfg *config.Config, logger *zap.Logger) (*pdf.Analyser, error) {
	factory, err := wrapper.NewPDFLibraryFactoryWithConfig(wrapper.FactoryConfig{
		TextLibrary:  wrapper.LibraryType(cfg.TextBackend),
		ImageLibrary: wrapper.LibraryType(cfg.ImageBackend),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure PDF backends: %w", err)
	}

	return pdf.NewAnalyser(pdf.AnalyserConfig{
		AllowedExtensions: cfg.AllowedExtensions,
		Opener:            factory,
		Logger:            logger,
	}), nil
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *zap.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		if err := <-serverErrCh; err != nil {
			return fmt.Errorf("server shutdown with error: %w", err)
		}

	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	logger.Info("server stopped successfully")
	return nil
}

// runStdioMode handles stdio mode execution; the parent process controls
// the lifecycle and closing stdin ends it
func runStdioMode(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx)
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		if errors.Is(err, config.ErrVersionRequested) {
			printVersion(os.Stdout)
			return
		}
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if version != "dev" {
		cfg.Version = version
	}

	logger.Debug("starting with configuration", zap.Stringer("config", cfg))

	analyser, err := newAnalyser(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create analyser", zap.Error(err))
	}

	server, err := mcp.NewServer(cfg, analyser, logger)
	if err != nil {
		logger.Fatal("failed to create MCP server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		err = runServerMode(ctx, cancel, server, logger)
	} else {
		err = runStdioMode(ctx, server)
	}
	if err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "PDF Analyser\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
