package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/config"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/dialog"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/handler"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/session"
	searchservice "github.com/dexamp-push/telegram-dataset-submission-bot/internal/service/search"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/service/sheets"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/transport/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file, continuing with system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// The sheets service is never nil; a failed connection leaves it in a
	// permanently unavailable state and every finish action tells the user so.
	sheetsSvc := sheets.Connect(ctx, cfg.Sheets, logger)

	var searcher dialog.Searcher
	if cfg.Search.Enabled() {
		searchSvc, err := searchservice.NewService(ctx, cfg.Search, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize search service, continuing without search")
		} else {
			searcher = searchSvc
			logger.Info().Msg("search service initialized successfully")
		}
	} else {
		logger.Info().Msg("search credentials not configured, skipping search initialization")
	}

	bot, err := telegram.New(cfg.Telegram, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to authorize telegram bot")
	}

	sessions := session.NewMemoryStore()
	collectDialog := dialog.NewCollectDialog(sessions, sheetsSvc, bot, logger)
	searchDialog := dialog.NewSearchDialog(sessions, searcher, bot, logger)
	dispatcher := dialog.NewDispatcher(sessions, collectDialog, searchDialog, bot, logger)

	go startServer(ctx, cfg.Server, handler.NewRouter(sheetsSvc), logger)

	if err := bot.Run(ctx, dispatcher); err != nil {
		logger.Fatal().Err(err).Msg("telegram poll loop failed")
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", serverCfg.Addr).Msg("status server listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Error().Err(err).Msg("status server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
