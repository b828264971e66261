package handlers

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrorNotifier is a zerolog hook that forwards error-level log events to a
// designated chat, so the operator hears about failures without tailing logs.
// Sends are rate-limited to keep a crash loop from flooding the chat.
type ErrorNotifier struct {
	bot    botAPI
	chatID int64
	limit  *rate.Limiter
}

func NewErrorNotifier(bot *tgbotapi.BotAPI, chatID int64) *ErrorNotifier {
	return &ErrorNotifier{
		bot:    bot,
		chatID: chatID,
		limit:  rate.NewLimiter(rate.Every(10*time.Second), 3),
	}
}

func (n *ErrorNotifier) Run(_ *zerolog.Event, level zerolog.Level, message string) {
	if level < zerolog.ErrorLevel || level > zerolog.PanicLevel || message == "" {
		return
	}
	if !n.limit.Allow() {
		return
	}
	// Best effort; a send failure must not log through this hook again.
	_, _ = n.bot.Send(tgbotapi.NewMessage(n.chatID, "🚨 "+level.String()+": "+message))
}
