package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/strad-dev131/GuessWithEmoji/internal/config"
	"github.com/strad-dev131/GuessWithEmoji/internal/game"
	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

func categoryEmoji(category models.Category) string {
	switch category {
	case models.CategoryHollywood:
		return "🇺🇸"
	case models.CategoryBollywood:
		return "🇮🇳"
	case models.CategoryTollywood:
		return "🎭"
	}
	return "🎬"
}

func difficultyEmoji(difficulty models.Difficulty) string {
	switch difficulty {
	case models.DifficultyEasy:
		return "🟢"
	case models.DifficultyMedium:
		return "🟡"
	case models.DifficultyHard:
		return "🔴"
	}
	return "⚪"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
}

func formatGameMessage(s *models.GameSession, timeout time.Duration) string {
	var b strings.Builder
	b.WriteString("🎬 *New Movie Puzzle!*\n\n")
	fmt.Fprintf(&b, "🎯 *Guess the movie:* %s\n\n", s.Emojis)
	fmt.Fprintf(&b, "%s *Category:* %s\n", categoryEmoji(s.Category), titleCase(string(s.Category)))
	fmt.Fprintf(&b, "%s *Difficulty:* %s\n", difficultyEmoji(s.Difficulty), titleCase(string(s.Difficulty)))
	fmt.Fprintf(&b, "⏰ *Time Limit:* %s\n\n", formatDuration(timeout))
	b.WriteString("💡 Use /hint to get a clue!\n")
	b.WriteString("🎮 Use /guess <your answer> to participate!")
	return b.String()
}

func formatVictoryMessage(outcome *game.GuessOutcome) string {
	s := outcome.Session
	var b strings.Builder
	b.WriteString("🎉 *WINNER!* 🎉\n\n")
	fmt.Fprintf(&b, "🏆 *%s* got it right!\n", s.WinnerName)
	fmt.Fprintf(&b, "🎬 *Answer:* %s\n", s.Answer)
	fmt.Fprintf(&b, "⚡ *Time:* %s\n", formatDuration(outcome.Elapsed))
	fmt.Fprintf(&b, "⭐ *Points Earned:* %d", outcome.Points)
	if outcome.SpeedBonus {
		b.WriteString(" (🚀 Speed Bonus!)")
	}
	fmt.Fprintf(&b, "\n\n%s %s | %s %s",
		categoryEmoji(s.Category), titleCase(string(s.Category)),
		difficultyEmoji(s.Difficulty), titleCase(string(s.Difficulty)))
	return b.String()
}

func formatWrongGuess(firstName string, attempt, maxAttempts int) string {
	if firstName == "" {
		firstName = "friend"
	}
	responses := []string{
		fmt.Sprintf("❌ Not quite right, %s!", firstName),
		fmt.Sprintf("🤔 Nope, try again %s!", firstName),
		fmt.Sprintf("🎯 Keep guessing, %s!", firstName),
	}
	text := responses[attempt%len(responses)]
	if maxAttempts > 0 {
		text += fmt.Sprintf(" (%d/%d guesses used)", attempt, maxAttempts)
	}
	return text
}

func formatHint(hint *game.HintOutcome) string {
	return fmt.Sprintf("💡 *Hint %d/%d:* %s", hint.Index, hint.Total, hint.Hint)
}

func formatGameOver(header string, s *models.GameSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s The answer was *%s*\n\n", header, s.Answer)
	fmt.Fprintf(&b, "🎬 %s\n", s.Emojis)
	fmt.Fprintf(&b, "%s %s | %s %s",
		categoryEmoji(s.Category), titleCase(string(s.Category)),
		difficultyEmoji(s.Difficulty), titleCase(string(s.Difficulty)))
	return b.String()
}

var medals = []string{"🥇", "🥈", "🥉"}

func formatLeaderboard(users []models.User) string {
	if len(users) == 0 {
		return "🏆 *Leaderboard*\n\nNo players yet! Be the first to play! 🎬"
	}

	lines := lo.Map(users, func(u models.User, i int) string {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		return fmt.Sprintf("%s %s: %d points (%d/%d wins)",
			medal, u.DisplayName(), u.Score, u.GamesWon, u.GamesPlayed)
	})
	return "🏆 *Top Players*\n\n" + strings.Join(lines, "\n")
}

func formatGroupStats(chatID int64, stat *models.ChatStat, top []models.ChatStat) string {
	var b strings.Builder
	b.WriteString("📊 *Group Statistics*\n\n")
	if stat == nil {
		b.WriteString("No games played here yet. Use /gen to start one!\n")
	} else {
		fmt.Fprintf(&b, "🎮 Games played: %d\n", stat.TotalGames)
		fmt.Fprintf(&b, "⭐ Points earned: %d\n", stat.TotalPoints)
		if stat.LastGameAt != nil {
			fmt.Fprintf(&b, "🕐 Last game: %s\n", stat.LastGameAt.Format("January 2, 2006"))
		}
	}

	if len(top) > 0 {
		b.WriteString("\n🏆 *Top Groups*\n")
		for i, g := range top {
			marker := fmt.Sprintf("%d.", i+1)
			if i < len(medals) {
				marker = medals[i]
			}
			name := g.Title
			if name == "" {
				name = fmt.Sprintf("Group %d", g.ChatID)
			}
			you := ""
			if g.ChatID == chatID {
				you = " ← this group"
			}
			fmt.Fprintf(&b, "%s %s: %d points%s\n", marker, name, g.TotalPoints, you)
		}
	}
	return b.String()
}

func formatUserStats(u *models.User, rank int) string {
	winRate := 0.0
	if u.GamesPlayed > 0 {
		winRate = float64(u.GamesWon) / float64(u.GamesPlayed) * 100
	}

	var b strings.Builder
	b.WriteString("📊 *Your Game Statistics*\n\n")
	fmt.Fprintf(&b, "👤 *Player:* %s\n", u.DisplayName())
	if rank > 0 {
		fmt.Fprintf(&b, "🏅 *Global Rank:* #%d\n", rank)
	}
	fmt.Fprintf(&b, "⭐ *Total Score:* %d points\n", u.Score)
	fmt.Fprintf(&b, "🏆 *Games Won:* %d\n", u.GamesWon)
	fmt.Fprintf(&b, "🎮 *Games Played:* %d\n", u.GamesPlayed)
	fmt.Fprintf(&b, "📈 *Win Rate:* %.1f%%\n", winRate)
	fmt.Fprintf(&b, "🎯 *Correct Guesses:* %d\n", u.CorrectGuesses)
	fmt.Fprintf(&b, "💡 *Hints Used:* %d\n", u.HintsUsed)
	fmt.Fprintf(&b, "📅 *Member Since:* %s", u.JoinedAt.Format("January 2, 2006"))
	return b.String()
}

func helpText(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("🎬 *GuessWithEmoji - Complete Guide* 🎭\n\n")
	b.WriteString("🎯 *Game Commands:*\n")
	b.WriteString("• `/gen [category] [difficulty]` - Start new puzzle\n")
	b.WriteString("  Examples: `/gen hollywood easy`, `/gen bollywood`, `/gen`\n")
	b.WriteString("• `/guess <movie name>` - Make your guess\n")
	fmt.Fprintf(&b, "• `/hint` - Get a clue (max %d per game)\n", cfg.MaxHints)
	b.WriteString("• `/endgame` - End current game (admins only)\n\n")
	b.WriteString("📊 *Stats & Rankings:*\n")
	b.WriteString("• `/leaderboard` - View top players\n")
	b.WriteString("• `/stats` - View your personal statistics\n")
	b.WriteString("• `/groupstats` - View group statistics\n\n")
	b.WriteString("🎬 *Categories:* hollywood 🇺🇸, bollywood 🇮🇳, tollywood 🎭\n")
	b.WriteString("⚡ *Difficulties:* easy 🟢, medium 🟡, hard 🔴\n\n")
	b.WriteString("🎮 *Scoring:*\n")
	fmt.Fprintf(&b, "• Correct answer: %d points\n", cfg.PointsCorrect)
	fmt.Fprintf(&b, "• Multiplied by difficulty (easy ×%g, medium ×%g, hard ×%g)\n",
		cfg.DifficultyMultipliers[models.DifficultyEasy],
		cfg.DifficultyMultipliers[models.DifficultyMedium],
		cfg.DifficultyMultipliers[models.DifficultyHard])
	b.WriteString("• Solve fast for a speed bonus!\n")
	fmt.Fprintf(&b, "• Games time out after %s\n", formatDuration(cfg.GameTimeout))
	return b.String()
}
