package main

import (
	"context"
	"os"

	"github.com/tunedeck/tunedeck/internal/identity"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	credPath, err := config.CredentialPath()
	if err != nil {
		logger.Fatalf("failed to resolve credential path: %v", err)
	}

	ids := identity.NewManager(identity.NewCredentialStore(credPath), logger)
	if err := ids.Watch(); err != nil {
		// No watch means no cross-process convergence, nothing else breaks.
		logger.Debug("credential watch unavailable", "err", err)
	}
	defer ids.Close()

	catalog := services.NewAPIClient(config.Server.BaseURL, nil, ids.Token, config.Server.RequestsPerSecond)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Auth:    catalog,
		IDs:     ids,
		Logger:  logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "tunedeck",
		Usage:    "Browse, manage, and play the tunedeck music catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
