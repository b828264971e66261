package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// sendPause paces broadcast sends to stay under Telegram's global limit.
const sendPause = 50 * time.Millisecond

// handleBroadcast sends an announcement to every chat the bot has seen.
// Owner only.
func (h *BotHandler) handleBroadcast(ctx context.Context, message *tgbotapi.Message) {
	if message.From.ID != h.cfg.OwnerID {
		h.sendMessage(message.Chat.ID, "❌ This command is restricted to the bot owner only.")
		return
	}

	text := strings.TrimSpace(message.CommandArguments())
	if text == "" {
		h.sendMarkdown(message.Chat.ID,
			"📢 *Broadcast Usage:*\n\n`/broadcast Your message here`\n\nThis will send the message to all known chats.")
		return
	}

	chatIDs, err := h.repo.AllChatIDs(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, h.translateError(err))
		return
	}

	log.Info().Int("chats", len(chatIDs)).Int64("sender", message.From.ID).Msg("broadcast started")

	// The paced send loop runs in the background; blocking the dispatch
	// loop for 50ms per chat would freeze every game while it runs.
	go h.runBroadcast(chatIDs, text, message.Chat.ID)
}

func (h *BotHandler) runBroadcast(chatIDs []int64, text string, reportTo int64) {
	broadcast := "📢 *Official Announcement*\n\n" + text
	sent := 0
	for _, chatID := range chatIDs {
		msg := tgbotapi.NewMessage(chatID, broadcast)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := h.bot.Send(msg); err != nil {
			// Chats that kicked the bot fail here; keep going.
			log.Warn().Err(err).Int64("chat", chatID).Msg("broadcast send failed")
		} else {
			sent++
		}
		time.Sleep(sendPause)
	}

	log.Info().Int("sent", sent).Int("total", len(chatIDs)).Msg("broadcast complete")

	result := fmt.Sprintf("📢 *Broadcast Complete*\n\n✅ *Sent:* %d\n📊 *Total Chats:* %d", sent, len(chatIDs))
	if len(chatIDs) > 0 {
		result += fmt.Sprintf("\n📈 *Success Rate:* %.1f%%", float64(sent)/float64(len(chatIDs))*100)
	}
	h.sendMarkdown(reportTo, result)
}
