package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShrayBagga/StockAnalysis/internal/api"
	"github.com/ShrayBagga/StockAnalysis/internal/api/handlers"
	"github.com/ShrayBagga/StockAnalysis/internal/scheduler"
	"github.com/ShrayBagga/StockAnalysis/internal/scheduler/jobs"
	"github.com/ShrayBagga/StockAnalysis/internal/watchlist"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the REST API server and the refresh scheduler.

Endpoints:
  GET    /health                - Health check
  GET    /api/watchlist         - Watchlist tickers
  POST   /api/watchlist         - Add {"ticker": "AAPL"}
  DELETE /api/watchlist         - Remove {"ticker": "AAPL"}
  GET    /api/default_stocks    - Default companies and index funds
  GET    /api/stock_data?ticker - Market data and analysis report
  GET    /api/scheduler/jobs    - Scheduled job statistics
  GET    /ws/reports            - Live report stream (websocket)

Example:
  go run ./cmd/stockanalysis serve
  go run ./cmd/stockanalysis serve --port 8080 --no-scheduler`,
	RunE: runServe,
}

var (
	servePort        string
	serveNoScheduler bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "disable scheduled refresh jobs")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig(false)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"storage": cfg.Storage.Backend,
	}).Info("Initializing API server")

	// 3. Storage, cache and market data
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if fs, ok := a.watchlist.(*watchlist.FileStore); ok {
		if err := fs.EnsureFile(); err != nil {
			return fmt.Errorf("create watchlist file: %w", err)
		}
	}
	if _, err := a.defaults.Load(ctx); err != nil {
		log.WithError(err).Warn("Default stocks file unavailable, serving built-in defaults")
	}

	// 4. Report stream
	hub := handlers.NewReportHub(cfg.CORSAllowedOrigins, log)
	defer hub.Close()

	// 5. Scheduler
	var jobStats handlers.JobStatsProvider
	var sched *scheduler.Scheduler

	if cfg.Refresh.Enabled && !serveNoScheduler {
		sched = scheduler.New(log)

		refresh := jobs.NewWatchlistRefreshJob(a.watchlist, a.defaults, a.market, hub, cfg.Refresh.Schedule, log)
		if err := sched.AddJob(refresh); err != nil {
			return fmt.Errorf("register refresh job: %w", err)
		}
		if err := sched.AddJob(jobs.NewCacheCleanupJob(a.market, log)); err != nil {
			return fmt.Errorf("register cache cleanup job: %w", err)
		}

		sched.Start()
		defer sched.Stop()
		jobStats = sched
	}

	// 6. Router and server
	routes := api.Handlers{
		Watchlist: handlers.NewWatchlistHandler(a.watchlist, log),
		Stock:     handlers.NewStockHandler(a.market, a.defaults, log),
		Scheduler: handlers.NewSchedulerHandler(jobStats),
		Reports:   hub,
	}
	if a.db != nil {
		routes.Database = a.db
	}
	router := api.NewRouter(routes, cfg.CORSAllowedOrigins, log)

	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n%s Server running on http://localhost:%s\n", successStyle.Render("✓"), cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a failed start
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
