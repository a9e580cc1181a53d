package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/core-coin/ostiarius/internal/config"
	"github.com/core-coin/ostiarius/internal/ostiarius"
	"github.com/core-coin/ostiarius/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "ostiarius",
		Usage: "Ostiarius sells access to a private Telegram channel for reviewed payments",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
			&cli.StringFlag{Name: "database-driver", Usage: "Database driver (sqlite or postgres)"},
			&cli.StringFlag{Name: "database-path", Usage: "SQLite database file"},
			&cli.IntFlag{Name: "api-port", Usage: "Status API port, 0 disables it"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}
	if c.IsSet("database-driver") {
		cfg.DatabaseDriver = c.String("database-driver")
	}
	if c.IsSet("database-path") {
		cfg.DatabasePath = c.String("database-path")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := ostiarius.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start: %v", err)
	}

	log.Info("Ostiarius started",
		"channel", cfg.ChannelID,
		"subscription_days", cfg.SubscriptionDays,
		"sweep_interval", cfg.SweepInterval())
	if err := app.Start(ctx); err != nil {
		return err
	}
	log.Info("Ostiarius stopped")
	return nil
}
