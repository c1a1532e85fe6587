package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/internal/config"
	"github.com/paramedit/paramedit/internal/logging"
	"github.com/paramedit/paramedit/internal/server"
	"github.com/paramedit/paramedit/internal/session"
)

var (
	servePort int
	serveCORS bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the paramedit HTTP server",
	Long: `Start paramedit as a server exposing the edit session over an
HTTP API, with live events streamed over SSE at /event.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", true, "Enable CORS")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h, err := openHost(ctx)
	if err != nil {
		return err
	}

	svc := session.NewService(h, cfg.Navigation)

	serverCfg := server.DefaultConfig()
	if cfg.Server != nil && cfg.Server.Port != 0 {
		serverCfg.Port = cfg.Server.Port
	}
	if servePort != 0 {
		serverCfg.Port = servePort
	}
	serverCfg.EnableCORS = serveCORS

	srv := server.New(serverCfg, svc)

	// Reload config on file changes for the lifetime of the server.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go config.Watch(watchCtx, resolvedDir, func(path string) {
		if fresh, err := config.Load(resolvedDir); err == nil {
			cfg = fresh
		}
	})

	go func() {
		logging.Info().Int("port", serverCfg.Port).Str("document", cfg.Document).Msg("server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}

	logging.Info().Msg("server stopped")
	return nil
}
