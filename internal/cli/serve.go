package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/tasker/internal/config"
	"github.com/Joseda-hg/tasker/internal/db"
	"github.com/Joseda-hg/tasker/internal/logging"
	"github.com/Joseda-hg/tasker/internal/web"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		port   int
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.ServerPort = port
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if cfg.DBPath == "" {
				if cfg.DBPath, err = config.DefaultDataPath("tasker.db"); err != nil {
					return fmt.Errorf("resolve db path: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(cfg.LogLevel, os.Stderr)

	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return fmt.Errorf("ensure db dir: %w", err)
	}
	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           web.NewServer(db.NewStore(conn), cfg.APIKey, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.DBPath).Bool("auth", cfg.APIKey != "").Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
