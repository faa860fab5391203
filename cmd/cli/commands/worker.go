package commands

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background task worker until interrupted",
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
		wg.Wait()
		return nil
	},
}
