package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/config"
	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/logging"
	"github.com/GriffinCanCode/spotifytv/internal/shared/id"
	"github.com/GriffinCanCode/spotifytv/internal/spotify"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := authorize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "spotifytv-auth: %v\n", err)
		return 1
	}
	return 0
}

func authorize(ctx context.Context) error {
	cfg, err := config.LoadSpotify()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Component("auth")

	addr, path, err := callbackAddr(cfg.RedirectURI)
	if err != nil {
		return err
	}

	store := spotify.NewTokenStore(cfg.TokenCache)
	authz := spotify.NewAuthorizer(spotify.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
	}, store, id.Default().GenerateWithPrefix("state"))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	done := make(chan error, 1)
	srv := &http.Server{
		Handler:           newCallbackRouter(path, authz, log, done),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			notify(done, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Open this URL in your browser to authorize spotifytv:\n\n%s\n\n", authz.URL())
	log.Info("Waiting for callback", zap.String("addr", addr), zap.String("path", path))

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	fmt.Printf("Token cached at %s\n", store.Path())
	return nil
}
