package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogapi/internal/book"
	"catalogapi/internal/config"
	"catalogapi/internal/httpx"
	"catalogapi/internal/platform/logging"
	"catalogapi/internal/platform/postgres"
	"catalogapi/internal/resource"

	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Init(os.Stdout, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.Open(ctx, cfg.DatabaseDSN, 2*time.Second)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	logger.Info("database connection OK", "dsn", postgres.RedactDSN(cfg.DatabaseDSN))

	authors := resource.NewService(resource.NewPostgresRepo(dbPool, resource.Authors, cfg.DBTimeout))
	genres := resource.NewService(resource.NewPostgresRepo(dbPool, resource.Genres, cfg.DBTimeout))
	publishers := resource.NewService(resource.NewPostgresRepo(dbPool, resource.Publishers, cfg.DBTimeout))
	books := book.NewService(book.NewPostgresRepo(dbPool, cfg.DBTimeout))

	router := newRouter(dbPool,
		resource.NewHTTPHandler(resource.Authors, authors),
		resource.NewHTTPHandler(resource.Genres, genres),
		resource.NewHTTPHandler(resource.Publishers, publishers),
		book.NewHTTPHandler(books, book.NewValidator(authors, publishers)),
	)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxyHeaders)
	defer limiter.Close()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newHandler(cfg, router, limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
