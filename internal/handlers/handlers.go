package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/strad-dev131/GuessWithEmoji/internal/catalog"
	"github.com/strad-dev131/GuessWithEmoji/internal/config"
	"github.com/strad-dev131/GuessWithEmoji/internal/game"
	"github.com/strad-dev131/GuessWithEmoji/internal/models"
	"github.com/strad-dev131/GuessWithEmoji/internal/repository"
	"github.com/strad-dev131/GuessWithEmoji/internal/service"
)

const handlerTimeout = 15 * time.Second

// botAPI is the slice of *tgbotapi.BotAPI the handlers use, so tests can
// substitute a fake transport.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

type BotHandler struct {
	bot      botAPI
	engine   *game.Engine
	repo     *repository.Repository
	boards   *service.LeaderboardService
	cfg      *config.Config
	limiters *userLimiters
}

func NewBotHandler(bot *tgbotapi.BotAPI, engine *game.Engine, repo *repository.Repository, boards *service.LeaderboardService, cfg *config.Config) *BotHandler {
	return &BotHandler{
		bot:      bot,
		engine:   engine,
		repo:     repo,
		boards:   boards,
		cfg:      cfg,
		limiters: newUserLimiters(cfg.CommandsPerMinute),
	}
}

func (h *BotHandler) HandleUpdate(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	}
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	user, err := h.repo.GetOrCreateUser(ctx, message.From.ID, message.From.UserName, message.From.FirstName)
	if err != nil {
		log.Error().Err(err).Int64("user", message.From.ID).Msg("failed to register user")
	}
	if user != nil && user.Banned {
		return
	}
	if err := h.repo.TouchChat(ctx, message.Chat.ID, message.Chat.Title); err != nil {
		log.Warn().Err(err).Int64("chat", message.Chat.ID).Msg("failed to touch chat")
	}

	if message.IsCommand() {
		if !h.limiters.allow(message.From.ID) {
			h.sendMessage(message.Chat.ID, "⚠️ Slow down! Please wait a moment before using another command.")
			return
		}
		switch message.Command() {
		case "start":
			h.handleStart(message)
		case "help":
			h.handleHelp(message.Chat.ID)
		case "gen":
			h.handleGen(ctx, message.Chat.ID, message.CommandArguments())
		case "guess":
			h.handleGuess(ctx, message, message.CommandArguments())
		case "hint":
			h.handleHint(ctx, message.Chat.ID, message.From.ID)
		case "endgame":
			h.handleEndGame(ctx, message)
		case "leaderboard":
			h.handleLeaderboard(ctx, message.Chat.ID)
		case "groupstats":
			h.handleGroupStats(ctx, message.Chat.ID)
		case "stats":
			h.handleStats(ctx, message.Chat.ID, message.From.ID)
		case "broadcast":
			h.handleBroadcast(ctx, message)
		default:
			h.sendMessage(message.Chat.ID, "🤔 Unknown command. Use /help to see what I can do.")
		}
		return
	}

	// Bare text in a chat with a running game counts as a guess.
	if message.Text != "" {
		h.handleBareGuess(ctx, message)
	}
}

func (h *BotHandler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.From == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	// Ack first so the button stops spinning.
	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Warn().Err(err).Msg("failed to answer callback")
	}

	switch callback.Data {
	case "hint":
		h.handleHint(ctx, chatID, callback.From.ID)
	case "endgame":
		h.handleEndGame(ctx, &tgbotapi.Message{Chat: callback.Message.Chat, From: callback.From})
	case "new_game":
		h.handleGen(ctx, chatID, "")
	case "show_leaderboard":
		h.handleLeaderboard(ctx, chatID)
	case "show_stats":
		h.handleStats(ctx, chatID, callback.From.ID)
	}
}

func (h *BotHandler) handleStart(message *tgbotapi.Message) {
	text := `🎬 *Welcome to GuessWithEmoji!* 🎭

I turn movies into emoji riddles. Guess them, earn points, climb the leaderboard!

🎮 *How to play:*
1. Use /gen to start a new movie puzzle
2. Use /guess <movie name> (or just type your answer)
3. Use /hint when you're stuck
4. Beat the clock for a speed bonus!

🎬 Categories: hollywood, bollywood, tollywood
⚡ Difficulties: easy, medium, hard

Use /help for the full guide.`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎮 New Game", "new_game"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", "show_leaderboard"),
		),
	)
	h.send(msg)
}

func (h *BotHandler) handleHelp(chatID int64) {
	h.sendMarkdown(chatID, helpText(h.cfg))
}

func (h *BotHandler) handleGen(ctx context.Context, chatID int64, args string) {
	category, difficulty := parseGenArgs(args)

	session, err := h.engine.StartGame(ctx, chatID, category, difficulty)
	if err != nil {
		h.sendMessage(chatID, h.translateError(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatGameMessage(session, h.cfg.GameTimeout))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💡 Hint", "hint"),
			tgbotapi.NewInlineKeyboardButtonData("⏹️ End Game", "endgame"),
		),
	)
	h.send(msg)
}

// parseGenArgs accepts "/gen [category] [difficulty]" in any sensible order:
// "/gen hollywood easy", "/gen bollywood", "/gen hard".
func parseGenArgs(args string) (models.Category, models.Difficulty) {
	var category models.Category
	var difficulty models.Difficulty
	for _, arg := range strings.Fields(strings.ToLower(args)) {
		if c, ok := models.ParseCategory(arg); ok && category == "" {
			category = c
			continue
		}
		if d, ok := models.ParseDifficulty(arg); ok && difficulty == "" {
			difficulty = d
		}
	}
	return category, difficulty
}

func (h *BotHandler) handleGuess(ctx context.Context, message *tgbotapi.Message, guess string) {
	guess = strings.TrimSpace(guess)
	if guess == "" {
		h.sendMarkdown(message.Chat.ID, "🤔 Please provide your guess!\n\nExample: `/guess Titanic`")
		return
	}
	h.processGuess(ctx, message, guess, false)
}

// handleBareGuess treats plain text as a guess, but stays silent when no
// game is running so normal conversation isn't answered with errors.
func (h *BotHandler) handleBareGuess(ctx context.Context, message *tgbotapi.Message) {
	h.processGuess(ctx, message, strings.TrimSpace(message.Text), true)
}

func (h *BotHandler) processGuess(ctx context.Context, message *tgbotapi.Message, guess string, quiet bool) {
	chatID := message.Chat.ID
	name := message.From.UserName
	if name == "" {
		name = message.From.FirstName
	}

	outcome, err := h.engine.SubmitGuess(ctx, chatID, message.From.ID, name, guess)
	if err != nil {
		if quiet && errors.Is(err, game.ErrNoActiveGame) {
			return
		}
		h.sendMessage(chatID, h.translateError(err))
		return
	}

	if !outcome.Won {
		h.sendMessage(chatID, formatWrongGuess(message.From.FirstName, outcome.Attempt, h.cfg.MaxAttemptsPerUser))
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatVictoryMessage(outcome))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎮 New Game", "new_game"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", "show_leaderboard"),
		),
	)
	h.send(msg)
}

func (h *BotHandler) handleHint(ctx context.Context, chatID, userID int64) {
	hint, err := h.engine.RequestHint(ctx, chatID, userID)
	if err != nil {
		h.sendMessage(chatID, h.translateError(err))
		return
	}
	h.sendMarkdown(chatID, formatHint(hint))
}

func (h *BotHandler) handleEndGame(ctx context.Context, message *tgbotapi.Message) {
	if !h.isPrivileged(message.Chat, message.From.ID) {
		h.sendMessage(message.Chat.ID, "❌ Only group admins can end the game.")
		return
	}

	session, err := h.engine.ForceEnd(ctx, message.Chat.ID)
	if err != nil {
		h.sendMessage(message.Chat.ID, h.translateError(err))
		return
	}
	h.sendMarkdown(message.Chat.ID, formatGameOver("⏹️ Game ended!", session))
}

func (h *BotHandler) handleLeaderboard(ctx context.Context, chatID int64) {
	users, err := h.boards.TopUsers(ctx, 10)
	if err != nil {
		h.sendMessage(chatID, h.translateError(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatLeaderboard(users))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎮 New Game", "new_game"),
			tgbotapi.NewInlineKeyboardButtonData("📊 My Stats", "show_stats"),
		),
	)
	h.send(msg)
}

func (h *BotHandler) handleGroupStats(ctx context.Context, chatID int64) {
	stat, err := h.boards.GroupStats(ctx, chatID)
	if err != nil {
		h.sendMessage(chatID, h.translateError(err))
		return
	}
	top, err := h.boards.TopGroups(ctx, 10)
	if err != nil {
		h.sendMessage(chatID, h.translateError(err))
		return
	}
	h.sendMarkdown(chatID, formatGroupStats(chatID, stat, top))
}

func (h *BotHandler) handleStats(ctx context.Context, chatID, userID int64) {
	user, rank, err := h.boards.UserPosition(ctx, userID)
	if err != nil {
		h.sendMessage(chatID, h.translateError(err))
		return
	}
	if user == nil {
		h.sendMessage(chatID, "❌ No stats yet. Use /start to register, then play a game!")
		return
	}
	h.sendMarkdown(chatID, formatUserStats(user, rank))
}

// isPrivileged reports whether a user may force-end games: the bot owner
// anywhere, anyone in a private chat, or a group administrator.
func (h *BotHandler) isPrivileged(chat *tgbotapi.Chat, userID int64) bool {
	if userID == h.cfg.OwnerID {
		return true
	}
	if chat.IsPrivate() {
		return true
	}
	member, err := h.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chat.ID,
			UserID: userID,
		},
	})
	if err != nil {
		log.Warn().Err(err).Int64("chat", chat.ID).Int64("user", userID).Msg("failed to resolve chat member")
		return false
	}
	return member.IsCreator() || member.IsAdministrator()
}

// NotifyTimeouts announces games closed by the timeout sweep.
func (h *BotHandler) NotifyTimeouts(notices []game.TimeoutNotice) {
	for _, notice := range notices {
		session := &models.GameSession{
			Answer:     notice.Answer,
			Emojis:     notice.Emojis,
			Category:   notice.Category,
			Difficulty: notice.Difficulty,
		}
		h.sendMarkdown(notice.ChatID, formatGameOver("⏰ Time's up!", session))
	}
}

// translateError maps engine/store errors to user-facing replies. Nothing
// here is allowed to crash the dispatcher.
func (h *BotHandler) translateError(err error) string {
	switch {
	case errors.Is(err, game.ErrAlreadyActive):
		return "🎮 A game is already active in this chat! Use /guess to participate."
	case errors.Is(err, game.ErrNoActiveGame):
		return "🤔 No active game in this chat. Use /gen to start a new game!"
	case errors.Is(err, game.ErrHintsExhausted):
		return "🚫 No more hints available for this puzzle!"
	case errors.Is(err, game.ErrAttemptsExhausted):
		return "🚫 You've used all your guesses for this game. Wait for the next one!"
	case errors.Is(err, catalog.ErrNotFound):
		return "😔 No puzzles available for the specified criteria. Try a different category or difficulty."
	case errors.Is(err, repository.ErrStoreUnavailable):
		return "🚧 Something went wrong on my end. Please try again in a moment."
	default:
		log.Error().Err(err).Msg("unexpected handler error")
		return "❌ An error occurred. Please try again."
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *BotHandler) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	h.send(msg)
}

func (h *BotHandler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.bot.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat", msg.ChatID).Msg("failed to send message")
	}
}
