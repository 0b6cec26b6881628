package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/tinyserve"
	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/filestore"
	"github.com/rs/zerolog"
)

func main() {
	directory := flag.String("directory", "", "base directory for /files/ (defaults to the system temp dir)")
	addr := flag.String("addr", "", "address to listen on (overrides the config)")
	configPath := flag.String("config", "", "path to a JSON config file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)

	cfg := config.Default()
	if len(*configPath) > 0 {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatal().Err(err).Msg("cannot load config")
		}
	}

	if len(*directory) > 0 {
		cfg.Files.Root = *directory
	}

	if len(*addr) > 0 {
		cfg.NET.Addr = *addr
	}

	store := filestore.New(cfg.Files.Root)
	app := tinyserve.New(cfg, store).Logger(logger)
	if err := app.Bind(cfg.NET.Addr); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.NET.Addr).Msg("cannot bind")
	}

	logger.Info().Str("directory", store.Root()).Msg("serving files")

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		logger.Info().Stringer("signal", <-sig).Msg("shutting down")
		app.Stop()
	}()

	if err := app.Serve(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if lvl <= zerolog.DebugLevel {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(lvl).With().Timestamp().Logger()
}
