package commands

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fittrackd/fittrackd/config"
	"github.com/fittrackd/fittrackd/internal/logger"
)

func init() {
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(migrateCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the background worker",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var wg sync.WaitGroup
		wg.Add(1)
		go a.Worker.Run(ctx, &wg)

		go func() {
			<-ctx.Done()
			logger.Info("Shutting down API server...")
			_ = a.Fiber.Shutdown()
		}()

		addr := ":" + config.GetEnv("PORT", "8080")
		if err := a.Fiber.Listen(addr); err != nil {
			logger.Errorf("API server stopped: %v", err)
		}
		wg.Wait()
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the database schema migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		// db.New runs the migrations as part of connecting
		if _, err := buildApp(); err != nil {
			return err
		}
		logger.Info("Migration complete")
		return nil
	},
}
