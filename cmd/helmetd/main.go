// Command helmetd serves HTTP with the configured security response headers attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-helmet/app"
	"github.com/gaborage/go-helmet/config"
	"github.com/gaborage/go-helmet/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultFile, "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "helmetd: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	a.Server().Echo().GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	if err := a.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}
