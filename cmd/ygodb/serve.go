package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JustBryant/YGOMod-Card-Database/internal/refresh"
	"github.com/JustBryant/YGOMod-Card-Database/internal/registry"
	"github.com/JustBryant/YGOMod-Card-Database/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		sourceURI    string
		registryPath string
		addr         string
		refreshSpec  string
		orphans      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the loaded catalog over a read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := registry.Load(registryPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.BindAddr = addr
			}
			if refreshSpec != "" {
				cfg.RefreshSpec = refreshSpec
			}

			uri, err := resolveURI(cfg, sourceURI)
			if err != nil {
				return err
			}
			ld, err := newLoader(cfg, uri, orphans, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := refresh.NewService(ld)
			if err := svc.Refresh(ctx, "startup"); err != nil {
				return err
			}
			if err := svc.Start(cfg.RefreshSpec); err != nil {
				return err
			}
			defer svc.Stop()

			srv := &http.Server{
				Addr:    cfg.BindAddr,
				Handler: server.Router(svc, cfg.AllowOrigins),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("serving catalog on %s (refresh %s)", cfg.BindAddr, cfg.RefreshSpec)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceURI, "source", "", "index document path or URL (overrides the registry)")
	cmd.Flags().StringVar(&registryPath, "registry", "", "repository registry JSON file")
	cmd.Flags().StringVar(&addr, "addr", "", "bind address (default from config)")
	cmd.Flags().StringVar(&refreshSpec, "refresh", "", "cron spec for catalog reloads (default from config)")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "warn about JSON files the index never references")
	return cmd
}
