package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/youruser/reframe/internal/api"
	"github.com/youruser/reframe/internal/config"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := config.LoadDefault("")
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Fatal("invalid PORT", "port", port)
		}
		cfg.Server.Port = p
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "err", err)
	}

	r := api.NewRouter(cfg, logger)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	logger.Info("starting server on http://localhost" + addr)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal(err)
	}
}
