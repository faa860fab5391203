package main

import (
	"github.com/fittrackd/fittrackd/config"
	"github.com/fittrackd/fittrackd/internal/db"
	"github.com/fittrackd/fittrackd/internal/logger"
)

func main() {
	config.Load()
	logger.Init()

	_, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     config.GetEnvInt("DB_PORT", db.DefaultPort),
	})
	if err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Migration complete")
}
