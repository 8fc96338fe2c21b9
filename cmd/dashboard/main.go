package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mkorobov/passdash/internal/buildinfo"
	"github.com/mkorobov/passdash/internal/client/cli"
	"github.com/mkorobov/passdash/internal/client/config"
	"github.com/mkorobov/passdash/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app := cli.NewApp(cfg, log)
	app.Run(ctx)

}
