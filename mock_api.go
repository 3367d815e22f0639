package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomify-client/config"
	"roomify-client/controllers"
	"roomify-client/middleware"
	"roomify-client/routes"
)

// cmdMockAPI serves the in-memory Roomify API until ctx is cancelled.
func cmdMockAPI(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("mock-api", flag.ContinueOnError)
	addr := fs.String("addr", cfg.MockAddr, "listen address")
	adminEmail := fs.String("admin-email", "admin@roomify.local", "seeded admin email")
	adminPassword := fs.String("admin-password", "admin123", "seeded admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	backend := controllers.NewBackend()
	if err := backend.Seed(*adminEmail, *adminPassword); err != nil {
		return err
	}
	log.Info("✅ mock data seeded", zap.String("admin", *adminEmail), zap.Int("rooms", len(backend.Rooms())))

	tokens, err := middleware.NewTokenIssuer(cfg.MockJWTSecret)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	router := routes.SetupRouter(backend, tokens, routes.Options{
		CORSOrigins: cfg.CORSOriginList(),
		Logger:      log.Named("http"),
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 mock API starting", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("⚠️  shutdown signal received, shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("✅ server stopped gracefully")
	return nil
}
