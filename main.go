package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/strad-dev131/GuessWithEmoji/internal/catalog"
	"github.com/strad-dev131/GuessWithEmoji/internal/config"
	"github.com/strad-dev131/GuessWithEmoji/internal/database"
	"github.com/strad-dev131/GuessWithEmoji/internal/game"
	"github.com/strad-dev131/GuessWithEmoji/internal/handlers"
	"github.com/strad-dev131/GuessWithEmoji/internal/repository"
	"github.com/strad-dev131/GuessWithEmoji/internal/service"
	"github.com/strad-dev131/GuessWithEmoji/internal/web"
)

// cleanupAge is how long terminal sessions are kept before pruning.
const cleanupAge = 30 * 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, using system environment variables")
	}

	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database initialization failed")
	}
	defer db.Close()

	puzzles, err := catalog.Load(cfg.PuzzlesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzle catalog")
	}

	repo := repository.NewRepository(db)
	engine := game.NewEngine(repo, puzzles, cfg)
	boards := service.NewLeaderboardService(repo)

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("bot initialization failed")
	}
	bot.Debug = false
	log.Info().Str("username", bot.Self.UserName).Msg("bot authorized")

	handler := handlers.NewBotHandler(bot, engine, repo, boards, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health endpoint for the hosting platform.
	healthSrv := web.NewServer(db.DB)
	go func() {
		if err := healthSrv.Start(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("health server exited")
		}
	}()

	// Periodic sweep: time out idle games and announce the answers.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		cleanup := time.NewTicker(24 * time.Hour)
		defer cleanup.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				notices, err := engine.SweepTimeouts(ctx, now)
				if err != nil {
					log.Error().Err(err).Msg("timeout sweep failed")
					continue
				}
				handler.NotifyTimeouts(notices)
			case <-cleanup.C:
				n, err := repo.CleanupOldSessions(ctx, time.Now().Add(-cleanupAge))
				if err != nil {
					log.Warn().Err(err).Msg("session cleanup failed")
				} else if n > 0 {
					log.Info().Int64("removed", n).Msg("old sessions cleaned up")
				}
			}
		}
	}()

	if cfg.ErrorChatID != 0 {
		// Runtime errors are forwarded to the operator chat as well.
		log.Logger = log.Logger.Hook(handlers.NewErrorNotifier(bot, cfg.ErrorChatID))

		startup := tgbotapi.NewMessage(cfg.ErrorChatID, "🤖 GuessWithEmoji started and ready")
		if _, err := bot.Send(startup); err != nil {
			log.Warn().Err(err).Msg("failed to send startup notice")
		}
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := bot.GetUpdatesChan(u)

	log.Info().Msg("bot is running")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			bot.StopReceivingUpdates()
			return
		case update := <-updates:
			handler.HandleUpdate(update)
		}
	}
}
