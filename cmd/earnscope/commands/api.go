package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhvo/earnscope/internal/api"
	"github.com/minhvo/earnscope/internal/api/handlers"
	"github.com/minhvo/earnscope/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the background cache warmer.

Endpoints:
  GET /health          - Health check
  GET /api/periods     - Available reporting periods
  GET /api/summary     - Sector aggregation with QoQ/YoY growth
  GET /api/surprises   - Best and worst growth surprise tickers

Example:
  go run ./cmd/earnscope api
  go run ./cmd/earnscope api --port 8086`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	warmSchedule string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
	apiCmd.Flags().StringVar(&warmSchedule, "warm-schedule", "*/5 * * * *", "cron schedule for the cache warmer")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	log := rt.logger
	log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("Initializing API server")

	handler := handlers.New(rt.source, log)
	router := api.NewRouter(handler, log)
	server := api.New(rt.cfg, log, router)

	// Keep the hot snapshots fresh across cache TTL expiry
	sched := scheduler.New(log)
	warmJob := scheduler.NewWarmJob(rt.source, log, warmSchedule)
	if err := sched.AddJob(warmJob); err != nil {
		return fmt.Errorf("schedule cache warmer: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if err := sched.RunJob(warmJob.Name()); err != nil {
		log.WithError(err).Warn("Initial cache warm failed to start")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
