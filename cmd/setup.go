package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/vidup/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the token store and runs migrations, or rolls back the latest one with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Store.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Store.MaxOpenConns, r.config.Store.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		applied, err := shared.AppliedVersions(db)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Rolled back latest migration (%d remaining)\n", len(applied))
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	applied, err := shared.AppliedVersions(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Token store ready at %s (%d migrations applied)\n", path, len(applied))
}

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", shared.ErrInvalidArgument, path)
	}

	baseURL := cmd.String("base-url")
	if baseURL == "" {
		if err := shared.CreateConfigFile(path); err != nil {
			return err
		}
	} else {
		config := shared.DefaultConfig()
		config.API.BaseURL = baseURL
		if err := shared.SaveConfig(path, config); err != nil {
			return err
		}
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	return r.writePlain("Next: run `vidup setup database`, then `vidup auth login`\n")
}
