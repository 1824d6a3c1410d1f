package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamshidfarook/Geenie-Risk-Engine/service/api"
	"github.com/jamshidfarook/Geenie-Risk-Engine/service/core"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Starts the HTTP API.

Routes:
  GET  /api/ping
  GET  /api/settings
  POST /api/analyze   (CSV body; start, end, columns, window, threshold,
                       simulations, horizons, seed as query parameters)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}

	// listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := core.NewServiceContext(ctx, log, cfg.Analysis)
	s := api.GetHttpServer(sc, cfg)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.Addr).Msg("starting geenie server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal, shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return err
	}

	log.Info().Msg("server stopped successfully")
	return nil
}
