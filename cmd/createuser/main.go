// Command createuser provisions admin accounts. The dashboard has no signup flow.
package main

import (
	"fmt"
	"os"

	"blog-admin/internal/config"
	"blog-admin/internal/database"
	"blog-admin/internal/logging"
	"blog-admin/internal/repository"
)

func main() {
	rootCmd := NewRootCmd(openUserRepository)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openUserRepository connects to DATABASE_URL and applies pending migrations
func openUserRepository() (repository.UserRepository, func(), error) {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewUserRepository(db), func() { db.Close() }, nil
}
