package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fittrackd/fittrackd/config"
	"github.com/fittrackd/fittrackd/internal/app"
	"github.com/fittrackd/fittrackd/internal/db"
	"github.com/fittrackd/fittrackd/internal/logger"
)

func main() {
	config.Load()
	logger.Init()

	a, err := app.New(app.Options{
		DB: db.Options{
			Host:     config.GetEnv("DB_HOST", db.DefaultHost),
			User:     config.GetEnv("DB_USER", db.DefaultUser),
			Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
			DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
			Port:     config.GetEnvInt("DB_PORT", db.DefaultPort),
		},
		EmailEnabled: config.GetEnvBool("EMAIL_ENABLED", false),
		ExportDir:    config.GetEnv("EXPORT_DIR", "/tmp/fittrackd/exports"),
	})
	if err != nil {
		logger.Fatalf("Failed to initialize application: %v", err)
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
}
