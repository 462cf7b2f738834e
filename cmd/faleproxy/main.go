package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rackoyo/faleproxy/handlers"
	"github.com/rackoyo/faleproxy/internal/config"
	"github.com/rackoyo/faleproxy/internal/logging"
	"github.com/rackoyo/faleproxy/pkg/faleproxy"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	parser := argparse.NewParser("faleproxy", "Fetches a web page and serves it back with Yale rewritten to Fale")

	port := parser.String("p", "port", &argparse.Options{
		Required: false,
		Default:  cfg.Server.Port,
		Help:     "Port the webserver will listen on",
	})
	host := parser.String("a", "address", &argparse.Options{
		Required: false,
		Default:  cfg.Server.Host,
		Help:     "Address the webserver will bind to",
	})
	publicDir := parser.String("s", "static", &argparse.Options{
		Required: false,
		Default:  cfg.Server.PublicDir,
		Help:     "Directory served at /. Empty disables static files",
	})
	ruleset := parser.String("r", "ruleset", &argparse.Options{
		Required: false,
		Default:  cfg.Proxy.Ruleset,
		Help:     "File, directory or ';'-separated list of substitution rulesets",
	})
	timeout := parser.Int("t", "timeout", &argparse.Options{
		Required: false,
		Default:  cfg.Proxy.Timeout,
		Help:     "Upstream fetch timeout in seconds (0 keeps the client default)",
	})
	logLevel := parser.String("l", "log-level", &argparse.Options{
		Required: false,
		Default:  cfg.Logging.Level,
		Help:     "Log level: debug, info, warn or error",
	})
	dev := parser.Flag("d", "dev", &argparse.Options{
		Required: false,
		Default:  cfg.Logging.Development,
		Help:     "Human readable console logs",
	})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Server.PublicDir = *publicDir
	cfg.Proxy.Ruleset = *ruleset
	cfg.Proxy.Timeout = *timeout
	cfg.Logging.Level = *logLevel
	cfg.Logging.Development = *dev || logging.IsTerminal(os.Stdout)

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, falling back to info level\n", err)
		logger = logging.NewDefault()
	}
	defer func() { _ = logger.Sync() }()

	proxy, err := faleproxy.NewProxy(faleproxy.Options{
		RulesetPath: cfg.Proxy.Ruleset,
		UserAgent:   cfg.Proxy.UserAgent,
		Timeout:     cfg.Proxy.FetchTimeout(),
		LogURLs:     cfg.Proxy.LogURLs,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to initialize proxy", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               "faleproxy " + version,
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler(logger),
	})
	handlers.Register(app, proxy, logger, cfg.Server.PublicDir)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server is running",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("version", version),
		zap.String("static", cfg.Server.PublicDir),
	)
	if err := app.Listen(cfg.Server.Addr()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
