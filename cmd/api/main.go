package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/tape"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, log export
	shutdowns, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer func() {
		for _, shutdown := range shutdowns {
			_ = shutdown(context.Background())
		}
	}()

	// Sessions and tape
	storeOpts := []session.Option{
		session.WithEngineOptions(engine.WithMaxDigits(cfg.MaxDigits)),
	}
	var tapeReader calculator.TapeReader
	if cfg.TapePath != "" {
		t, err := tape.Open(cfg.TapePath)
		if err != nil {
			panic(err)
		}
		defer t.Close()
		storeOpts = append(storeOpts, session.WithRecorder(t))
		tapeReader = t
	}
	sessions := session.NewStore(storeOpts...)
	calc := calculator.NewHandler(sessions, tapeReader)

	go sessions.Run(ctx, cfg.SweepInterval, cfg.SessionTTL, calc.SessionsEvicted)

	// Router
	router := server.NewRouter(calc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.Int("max_digits", cfg.MaxDigits),
			zap.Bool("tape", cfg.TapePath != ""),
			zap.Bool("otlp", cfg.OTLP),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown failed", zap.Error(err))
		return
	}
	observability.Logger.Info("server stopped")
}
