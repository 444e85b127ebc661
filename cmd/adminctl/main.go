package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/cafe-fausse/server/internal/admin"
	"github.com/cafe-fausse/server/internal/gateway"
	"github.com/cafe-fausse/server/internal/tui"
)

func run(ctx context.Context, cmd *cli.Command) error {
	creds, err := admin.NewFileStore(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("credential store: %w", err)
	}

	client := gateway.New(cmd.String("api"), creds)

	// The TUI owns stdout; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := tui.Run(client, creds, logger); err != nil {
		return fmt.Errorf("admin console error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "adminctl",
		Usage:  "Terminal console for the Café Fausse admin menu editor",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "api",
				Usage:       "Base URL of the backend API",
				DefaultText: gateway.DefaultBaseURL,
				Sources:     cli.EnvVars(gateway.EnvBaseURL),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "Directory for the stored session credential",
				Sources: cli.EnvVars("CAFE_ADMIN_CONFIG_DIR"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
