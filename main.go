package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/texthub/textproc-gateway/internal/backend"
	"github.com/texthub/textproc-gateway/internal/config"
	"github.com/texthub/textproc-gateway/internal/db"
	"github.com/texthub/textproc-gateway/internal/gateway"
	"github.com/texthub/textproc-gateway/internal/mcpserver"
	"github.com/texthub/textproc-gateway/internal/webserver"
	"github.com/texthub/textproc-gateway/internal/worker"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "textproc-gateway",
		Short:        "API gateway for the text-processing services",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	var workerService, workerAddr string
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a stub processing backend for one service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(configPath); err != nil {
				return err
			}
			return runWorker(workerService, workerAddr)
		},
	}
	workerCmd.Flags().StringVar(&workerService, "service", "", "logical service name (translate, summary, analytics, improve, keywords)")
	workerCmd.Flags().StringVar(&workerAddr, "addr", ":8001", "listen address")
	workerCmd.MarkFlagRequired("service")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the gateway as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runMCP(cfg)
		},
	}

	root.AddCommand(serveCmd, workerCmd, mcpCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and initializes the global logger.
func setup(configPath string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	return cfg, nil
}

func runServe(cfg config.Config) error {
	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}

	gw := gateway.New(backend.NewRegistry(cfg.Services), backend.NewClient(), store)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: webserver.New(gw).Handler(),
	}

	return serveGracefully(srv)
}

func runWorker(service, addr string) error {
	handler, err := worker.NewHandler(service, worker.EchoGenerator{})
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: handler}
	log.Info().Str("service", service).Msg("starting worker")
	return serveGracefully(srv)
}

func runMCP(cfg config.Config) error {
	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}

	gw := gateway.New(backend.NewRegistry(cfg.Services), backend.NewClient(), store)
	return mcpserver.ServeStdio(mcpserver.New(gw))
}

// serveGracefully runs srv until SIGINT/SIGTERM, then drains for up to 10s.
func serveGracefully(srv *http.Server) error {
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
