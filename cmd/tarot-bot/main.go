// Tarot-bot is a Matrix chatbot that reads tarot cards.
//
// It answers in English, Russian or Ukrainian, following whichever language
// the user writes in, and supports two flows: an automated three-card spread
// for a free-text question, and interpretation of cards the user drew
// themselves.
//
// Required environment variables:
//
//	MATRIX_HOMESERVER     - Matrix homeserver URL (e.g. "https://matrix.org")
//	MATRIX_USER_ID        - bot's Matrix ID (e.g. "@tarot:matrix.org")
//	MATRIX_ACCESS_TOKEN   - bot's Matrix access token
//
// Optional environment variables:
//
//	MATRIX_ROOMS          - comma-separated room IDs to listen in (default: all)
//	ANTHROPIC_API_KEY     - Anthropic credential (preferred backend)
//	OPENAI_API_KEY        - OpenAI credential (fallback backend)
//	ORACLE_MODEL          - override the generation model name
//	ORACLE_TIMEOUT        - generation call timeout (default "30s")
//	REDIS_URL             - Redis session store (default: in-process)
//	SQLITE_PATH           - SQLite session store, used when REDIS_URL is unset
//	SESSION_TTL           - session expiry (default "24h")
//	RATE_LIMIT            - turns per user per window (default 5)
//	RATE_LIMIT_WINDOW     - admission window (default "1m")
//	MATCH_THRESHOLD       - fuzzy match score floor, 0-100 (default 75)
//	PAYMENT_ALLOWLIST     - comma-separated user IDs with free readings
//	LOG_LEVEL             - "debug", "info", "warn", "error" (default "info")
//	LOG_FORMAT            - "text" or "json" (default "text")
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dstuk/tarot-bot/internal/config"
	"github.com/dstuk/tarot-bot/internal/deck"
	"github.com/dstuk/tarot-bot/internal/engine"
	"github.com/dstuk/tarot-bot/internal/language"
	"github.com/dstuk/tarot-bot/internal/match"
	"github.com/dstuk/tarot-bot/internal/matrix"
	"github.com/dstuk/tarot-bot/internal/observability"
	"github.com/dstuk/tarot-bot/internal/oracle"
	"github.com/dstuk/tarot-bot/internal/payment"
	"github.com/dstuk/tarot-bot/internal/ratelimit"
	"github.com/dstuk/tarot-bot/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	observability.Setup(cfg.LogLevel, cfg.LogFormat)
	slog.Info("starting tarot-bot", "environment", cfg.Environment)

	catalog, err := deck.Load()
	if err != nil {
		slog.Error("failed to load card catalog", "err", err)
		os.Exit(1)
	}
	slog.Info("card catalog loaded", "cards", catalog.Len())

	provider, err := oracle.NewFromKeys(cfg.AnthropicAPIKey, cfg.OpenAIAPIKey, cfg.OracleModel)
	if err != nil {
		slog.Error("failed to configure generation backend", "err", err)
		os.Exit(1)
	}

	store := session.SelectStore(cfg.RedisURL, cfg.SQLitePath, cfg.SessionTTL)

	eng := engine.New(engine.Options{
		Sessions:      session.NewManager(store),
		Limiter:       ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow),
		Resolver:      language.NewResolver(),
		Matcher:       match.New(catalog, cfg.MatchThreshold),
		Catalog:       catalog,
		Oracle:        provider,
		Payments:      payment.NewLogBackend(slog.Default()),
		AllowListed:   cfg.IsAllowListed,
		OracleTimeout: cfg.OracleTimeout,
	})

	client, err := matrix.New(&matrix.Config{
		Homeserver:  cfg.MatrixHomeserver,
		UserID:      cfg.MatrixUserID,
		AccessToken: cfg.MatrixAccessToken,
		Rooms:       cfg.MatrixRooms,
	}, eng)
	if err != nil {
		slog.Error("failed to create matrix client", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := client.Start(ctx); err != nil {
		slog.Error("failed to start matrix client", "err", err)
		os.Exit(1)
	}
	slog.Info("connected to matrix", "homeserver", cfg.MatrixHomeserver, "user", cfg.MatrixUserID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("shutting down", "signal", sig.String())

	client.Stop()
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("session store close failed", "err", err)
		}
	}
}
