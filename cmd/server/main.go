package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/simp-lee/playerbase/internal/app"
	"github.com/simp-lee/playerbase/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load config", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		fatal("failed to create app", err)
	}

	if err := a.Run(); err != nil {
		fatal("server error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
