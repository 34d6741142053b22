package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-social-auth/auth"
	"github.com/jrsteele09/go-social-auth/internal/config"
	"github.com/jrsteele09/go-social-auth/internal/db"
	"github.com/jrsteele09/go-social-auth/internal/logging"
	"github.com/jrsteele09/go-social-auth/internal/metrics"
	"github.com/jrsteele09/go-social-auth/revocation"
	"github.com/jrsteele09/go-social-auth/server"
	"github.com/jrsteele09/go-social-auth/sessions"
	"github.com/jrsteele09/go-social-auth/token"
	"github.com/jrsteele09/go-social-auth/users"
	"github.com/rs/zerolog/log"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func serve() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: cfg.GetAppName(),
		Env:     cfg.GetEnv(),
	})
	displayAppname(cfg.GetAppName())

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	database, err := db.New(startCtx, cfg.DBConfig())
	if err != nil {
		return err
	}
	defer database.Close()

	redisClient, err := revocation.Connect(startCtx, cfg.RedisURL, cfg.RedisTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	codec, err := token.NewCodec(cfg.TokenConfig())
	if err != nil {
		return err
	}

	m := metrics.New()
	authService, err := auth.NewService(auth.Repos{
		Users:       users.NewPostgresRepo(database),
		Sessions:    sessions.NewPostgresRepo(database),
		Revocations: revocation.NewRedisStore(redisClient, revocation.WithTimeout(cfg.RedisTimeout)),
	}, codec,
		auth.WithBcryptCost(cfg.BcryptCost),
		auth.WithRevokeAllOnReplay(cfg.RevokeAllOnReplay),
		auth.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	handler := server.New(cfg, authService,
		server.WithMetrics(m),
		server.WithHealthCheck("postgres", database.Pool.Ping),
		server.WithHealthCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	)

	httpServer := &http.Server{
		Addr:              cfg.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serverErr:
		return err
	case <-waitForStopSignal():
	}

	returnError = shutdown(httpServer)
	log.Info().Msg("server stopped")
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
