package models

import "time"

// Category is a movie industry the puzzles are grouped by.
type Category string

const (
	CategoryHollywood Category = "hollywood"
	CategoryBollywood Category = "bollywood"
	CategoryTollywood Category = "tollywood"
)

// ParseCategory returns the category for a user-supplied string.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryHollywood, CategoryBollywood, CategoryTollywood:
		return Category(s), true
	}
	return "", false
}

// Difficulty of a puzzle. Each level carries a point multiplier, configured
// separately (see config.Config).
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty returns the difficulty for a user-supplied string.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), true
	}
	return "", false
}

// SessionStatus is the lifecycle state of a game session.
type SessionStatus string

const (
	StatusActive  SessionStatus = "active"
	StatusWon     SessionStatus = "won"
	StatusTimeout SessionStatus = "timeout"
	StatusEnded   SessionStatus = "ended" // force-ended by an admin
)

// Puzzle is one emoji riddle. Puzzles are immutable once loaded; only the
// usage counters (kept in the database) change over time.
type Puzzle struct {
	ID         string // "<category>_<n>", stable across restarts
	Emojis     string
	Answer     string
	Category   Category
	Difficulty Difficulty
	Hints      []string
}

// GameSession is the live state of one chat's puzzle round. The chat id is
// the owning key: at most one session with StatusActive exists per chat.
type GameSession struct {
	ID           string // uuid
	ChatID       int64
	PuzzleID     string
	Emojis       string // snapshot of the puzzle, survives catalog reloads
	Answer       string
	Category     Category
	Difficulty   Difficulty
	Status       SessionStatus
	StartedAt    time.Time
	EndedAt      *time.Time
	WinnerID     *int64
	WinnerName   string
	HintsGiven   int
	Participants []int64 // user ids that guessed at least once
}

// User holds cumulative per-player statistics.
type User struct {
	TelegramID     int64
	Username       string
	FirstName      string
	Score          int
	GamesPlayed    int
	GamesWon       int
	CorrectGuesses int
	HintsUsed      int
	JoinedAt       time.Time
	LastActive     time.Time
	Banned         bool
}

// DisplayName is how a user shows up in replies and leaderboards.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Anonymous"
}

// ChatStat holds cumulative per-group statistics.
type ChatStat struct {
	ChatID      int64
	Title       string
	TotalGames  int
	TotalPoints int
	LastGameAt  *time.Time
}
