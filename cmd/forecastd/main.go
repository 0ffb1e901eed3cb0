// Forecastd is a slot-filling weather dialogue daemon.
//
// It classifies inbound user messages, extracts the city and date slots of
// a forecast request across turns, and answers with a formatted forecast
// once the request is complete.
//
// Configuration is loaded from a YAML file and FORECASTD_* environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	FORECASTD_WEATHER_API_KEY=... forecastd
//
//	# Explicit config file
//	forecastd -config /etc/forecastd/config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forecastd/internal/bot"
	"github.com/fyrsmithlabs/forecastd/internal/config"
	"github.com/fyrsmithlabs/forecastd/internal/dialog"
	"github.com/fyrsmithlabs/forecastd/internal/extraction"
	forecasthttp "github.com/fyrsmithlabs/forecastd/internal/http"
	"github.com/fyrsmithlabs/forecastd/internal/intent"
	"github.com/fyrsmithlabs/forecastd/internal/logging"
	"github.com/fyrsmithlabs/forecastd/internal/telemetry"
	"github.com/fyrsmithlabs/forecastd/internal/weather"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  forecastd           Start the forecastd daemon\n")
			fmt.Fprintf(os.Stderr, "  forecastd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("forecastd %s (commit %s, built %s)\n", version, gitCommit, buildDate)
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var provider *telemetry.Provider
	if cfg.Telemetry.Enabled {
		provider, err = telemetry.New(cfg.Telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = provider.Shutdown(shutdownCtx)
		}()
	}

	fetcher, err := weather.NewClient(weather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.Timeout,
		RPS:     cfg.Weather.RPS,
	}, logger)
	if err != nil {
		return fmt.Errorf("building weather client: %w", err)
	}

	pipeline := extraction.NewWeatherPipeline(logger, extraction.NewGazetteerRecognizer(), time.Now)
	router, err := intent.NewRouter(
		intent.NewHelpIntent(),
		intent.NewGreetingIntent(),
		intent.NewFarewellIntent(),
		intent.NewWeatherReportIntent(pipeline),
	)
	if err != nil {
		return fmt.Errorf("building intent router: %w", err)
	}

	b := bot.New(router, dialog.NewStore(dialog.NewWeatherContext), fetcher, logger)

	srvCfg := &forecasthttp.Config{Host: cfg.Server.Host, Port: cfg.Server.Port}
	srv, err := newServer(b, provider, logger, srvCfg)
	if err != nil {
		return fmt.Errorf("building http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("forecastd started",
		zap.String("version", version),
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer keeps the nil-gatherer case explicit: metrics are served only
// when telemetry is enabled.
func newServer(b *bot.Bot, provider *telemetry.Provider, logger *zap.Logger, cfg *forecasthttp.Config) (*forecasthttp.Server, error) {
	if provider == nil {
		return forecasthttp.NewServer(b, nil, logger, cfg)
	}
	return forecasthttp.NewServer(b, provider.Registry(), logger, cfg)
}
