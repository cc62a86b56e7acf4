package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	httpserver "github.com/tendant/simple-ats/internal/http"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var serveUI bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			enforcer, err := a.enforcer()
			if err != nil {
				return err
			}

			router, err := httpserver.NewRouter(httpserver.RouterConfig{
				Logger:              a.logger,
				Metrics:             a.metrics,
				PasswordService:     a.passwordService(),
				SessionService:      a.sessionService(),
				ProvisioningService: a.provisioningService(),
				Enforcer:            enforcer,
				Session:             a.cfg.Session,
				Guard:               a.cfg.Guard,
				RateLimitConfig:     a.cfg.RateLimit,
				SecurityHeaders:     a.cfg.SecurityHeaders,
				CORS:                a.cfg.CORS,
				MaxBodyBytes:        a.cfg.Server.MaxBodyBytes,
				ServeUI:             serveUI,
			})
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:         a.cfg.ListenAddr(),
				Handler:      router,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("server shutdown error", zap.Error(err))
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&serveUI, "ui", true, "serve the login and dashboard pages")
	return cmd
}
