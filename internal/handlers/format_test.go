package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

func TestParseGenArgs(t *testing.T) {
	tests := []struct {
		name           string
		args           string
		wantCategory   models.Category
		wantDifficulty models.Difficulty
	}{
		{name: "empty", args: ""},
		{name: "category only", args: "hollywood", wantCategory: models.CategoryHollywood},
		{name: "difficulty only", args: "hard", wantDifficulty: models.DifficultyHard},
		{name: "both", args: "bollywood medium", wantCategory: models.CategoryBollywood, wantDifficulty: models.DifficultyMedium},
		{name: "reversed order", args: "easy tollywood", wantCategory: models.CategoryTollywood, wantDifficulty: models.DifficultyEasy},
		{name: "mixed case", args: "Hollywood HARD", wantCategory: models.CategoryHollywood, wantDifficulty: models.DifficultyHard},
		{name: "unknown words ignored", args: "please something hard", wantDifficulty: models.DifficultyHard},
		{name: "first value wins", args: "hollywood bollywood", wantCategory: models.CategoryHollywood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, difficulty := parseGenArgs(tt.args)
			if category != tt.wantCategory {
				t.Errorf("category = %q, want %q", category, tt.wantCategory)
			}
			if difficulty != tt.wantDifficulty {
				t.Errorf("difficulty = %q, want %q", difficulty, tt.wantDifficulty)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{60 * time.Second, "1m 0s"},
		{95 * time.Second, "1m 35s"},
		{2 * time.Hour, "2h 0m"},
		{90 * time.Minute, "1h 30m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatLeaderboard(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := formatLeaderboard(nil)
		if !strings.Contains(got, "No players yet") {
			t.Errorf("formatLeaderboard(nil) = %q, want empty-state message", got)
		}
	})

	t.Run("medals then numbers", func(t *testing.T) {
		users := []models.User{
			{FirstName: "Alice", Score: 100, GamesWon: 5, GamesPlayed: 6},
			{FirstName: "Bob", Score: 80, GamesWon: 4, GamesPlayed: 7},
			{FirstName: "Carol", Score: 60, GamesWon: 3, GamesPlayed: 3},
			{FirstName: "Dave", Score: 40, GamesWon: 2, GamesPlayed: 9},
		}
		got := formatLeaderboard(users)
		for _, want := range []string{
			"🥇 Alice: 100 points (5/6 wins)",
			"🥈 Bob: 80 points",
			"🥉 Carol: 60 points",
			"4. Dave: 40 points",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("formatLeaderboard() missing %q in:\n%s", want, got)
			}
		}
	})
}

func TestFormatWrongGuess(t *testing.T) {
	got := formatWrongGuess("Alice", 1, 0)
	if !strings.Contains(got, "Alice") {
		t.Errorf("formatWrongGuess() = %q, want player name", got)
	}
	if strings.Contains(got, "guesses used") {
		t.Errorf("formatWrongGuess() = %q, unexpected attempt counter with no cap", got)
	}

	got = formatWrongGuess("", 2, 5)
	if !strings.Contains(got, "friend") {
		t.Errorf("formatWrongGuess() = %q, want fallback name", got)
	}
	if !strings.Contains(got, "(2/5 guesses used)") {
		t.Errorf("formatWrongGuess() = %q, want attempt counter", got)
	}
}

func TestFormatGameMessage(t *testing.T) {
	s := &models.GameSession{
		Emojis:     "🚢💔🧊",
		Category:   models.CategoryHollywood,
		Difficulty: models.DifficultyHard,
	}
	got := formatGameMessage(s, 60*time.Second)
	for _, want := range []string{"🚢💔🧊", "Hollywood", "Hard", "1m 0s"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatGameMessage() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Titanic") {
		t.Error("formatGameMessage() leaked the answer")
	}
}

func TestFormatUserStats(t *testing.T) {
	u := &models.User{
		FirstName:      "Alice",
		Score:          120,
		GamesWon:       4,
		GamesPlayed:    8,
		CorrectGuesses: 4,
		HintsUsed:      2,
		JoinedAt:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	got := formatUserStats(u, 7)
	for _, want := range []string{"Alice", "#7", "120 points", "50.0%", "March 15, 2024"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatUserStats() missing %q in:\n%s", want, got)
		}
	}

	// Zero games does not divide by zero.
	got = formatUserStats(&models.User{FirstName: "New"}, 0)
	if !strings.Contains(got, "0.0%") {
		t.Errorf("formatUserStats() = %q, want 0.0%% win rate", got)
	}
}
