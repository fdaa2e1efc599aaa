package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/metrics"
	chiTransport "github.com/imwes/linkfinder/internal/transport/chi"
	"github.com/imwes/linkfinder/internal/transport/telegram"
	"github.com/imwes/linkfinder/internal/usecase/bot"
	"github.com/imwes/linkfinder/internal/usecase/session"
	"github.com/imwes/linkfinder/internal/version"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	logger := a.logger
	cfg := a.cfg

	logger.Info("Starting linkfinder",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("telegram", cfg.Telegram.Token != ""),
	)

	if cfg.Telegram.Token == "" && cfg.HTTP.Port == 0 {
		return errors.New("nothing to serve: set telegram.token or http.port")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Rejected credentials are fatal; an unreachable store is not.
	if info, err := a.client.AuthInfo(ctx); err != nil {
		if domain.IsUnauthorized(err) {
			return fmt.Errorf("document store rejected the token: %w", err)
		}
		logger.Warn("Document store unreachable at startup", zap.Error(err))
	} else {
		logger.Info("Connected to document store",
			zap.String("user", info.UserName), zap.String("team", info.TeamName))
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if cfg.Telegram.Token != "" {
		poller, err := newPoller(a)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	}

	var srv *http.Server
	if cfg.HTTP.Port > 0 {
		srv = newHTTPServer(a)
		go func() {
			logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case runErr = <-errCh:
		logger.Error("Server failed", zap.Error(runErr))
		stop()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	}
	wg.Wait()

	logger.Info("Stopped gracefully")
	return runErr
}

func newPoller(a *app) (*telegram.Poller, error) {
	if err := tgbotapi.SetLogger(zap.NewStdLog(a.logger.Named("telegram"))); err != nil {
		return nil, fmt.Errorf("set telegram logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(a.cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	a.logger.Info("Authorized on Telegram", zap.String("bot", api.Self.UserName))

	sessions := session.NewStore(a.cfg.Session.IdleTTL())
	svc := bot.New(a.search, sessions, telegram.NewMessenger(api), a.cfg.Telegram.TagsImageURL, a.logger)

	return telegram.NewPoller(api, svc, a.cfg.Telegram.Workers, a.cfg.Telegram.PollTimeoutSec, a.logger), nil
}

func newHTTPServer(a *app) *http.Server {
	cfg := a.cfg.HTTP
	server := chiTransport.NewServer(a.search, a.health, a.logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(a.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(a.logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
}
