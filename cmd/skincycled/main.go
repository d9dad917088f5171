package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awaistahir/skincycle/internal/app"
	"github.com/awaistahir/skincycle/internal/config"
	"github.com/awaistahir/skincycle/internal/logging"
	"github.com/awaistahir/skincycle/internal/store"
	"github.com/awaistahir/skincycle/internal/uiapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "skincycled",
		Short:        "SkinCycle HTTP API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New(cfgFile)
			v.BindPFlag("port", cmd.Flags().Lookup("port"))
			v.BindPFlag("db", cmd.Flags().Lookup("db"))

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDir(); err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			// Open store
			st, err := store.NewStore(cfg.DBPath, logger)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			tracker, err := app.Open(st, app.WithLogger(logger))
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           uiapi.NewServer(tracker, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", zap.Int("port", cfg.Port), zap.String("db", cfg.DBPath))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skincycle/config.yaml)")
	rootCmd.Flags().IntP("port", "p", 8080, "HTTP port")
	rootCmd.Flags().String("db", "", "Database path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
