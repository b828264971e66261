// Package game implements the per-chat session state machine: starting
// puzzles, judging guesses, revealing hints, and timing out idle games.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/strad-dev131/GuessWithEmoji/internal/catalog"
	"github.com/strad-dev131/GuessWithEmoji/internal/config"
	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

// Store is the slice of the repository the engine needs.
type Store interface {
	GetActiveSession(ctx context.Context, chatID int64) (*models.GameSession, error)
	CreateSession(ctx context.Context, s *models.GameSession) error
	RecentPuzzleIDs(ctx context.Context, chatID int64, limit int) ([]string, error)
	RecordGuess(ctx context.Context, sessionID string, userID int64, guess string) error
	CountUserGuesses(ctx context.Context, sessionID string, userID int64) (int, error)
	FinishSessionWin(ctx context.Context, s *models.GameSession, winnerID int64, winnerName string, points int, endedAt time.Time) (bool, error)
	CloseSession(ctx context.Context, sessionID string, status models.SessionStatus, endedAt time.Time) (bool, error)
	UpdateSessionHints(ctx context.Context, sessionID string, hintsGiven int) error
	IncrementHintsUsed(ctx context.Context, tgID int64) error
	CreditGamesPlayed(ctx context.Context, userIDs []int64) error
	ExpiredActiveSessions(ctx context.Context, cutoff time.Time) ([]models.GameSession, error)
	SessionParticipants(ctx context.Context, sessionID string) ([]int64, error)
}

// Engine drives one game per chat. All operations on the same chat are
// serialized through a per-chat mutex, so two users can never both win from
// a stale read of the same session, and the timeout sweep cannot race a
// winning guess.
type Engine struct {
	store   Store
	catalog *catalog.Catalog
	cfg     *config.Config

	now func() time.Time

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

func NewEngine(store Store, cat *catalog.Catalog, cfg *config.Config) *Engine {
	return &Engine{
		store:     store,
		catalog:   cat,
		cfg:       cfg,
		now:       time.Now,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) lockChat(chatID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		e.chatLocks[chatID] = lock
	}
	return lock
}

// GuessOutcome reports what a guess did.
type GuessOutcome struct {
	Won        bool
	Session    *models.GameSession
	Points     int
	Elapsed    time.Duration
	SpeedBonus bool
	Attempt    int // 1-based attempt number for this user in this game
}

// HintOutcome is one revealed hint.
type HintOutcome struct {
	Hint  string
	Index int // 1-based
	Total int
}

// TimeoutNotice describes one game closed by the sweep, for the gateway to
// announce.
type TimeoutNotice struct {
	ChatID     int64
	Answer     string
	Emojis     string
	Category   models.Category
	Difficulty models.Difficulty
}

// StartGame opens a new puzzle for a chat. Category and difficulty are
// optional filters. Recently served puzzles are excluded; when that leaves
// nothing, the window resets and selection is retried once.
func (e *Engine) StartGame(ctx context.Context, chatID int64, category models.Category, difficulty models.Difficulty) (*models.GameSession, error) {
	lock := e.lockChat(chatID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := e.store.GetActiveSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyActive
	}

	// Window sized to the pool, so roughly the whole pool is served before
	// repeats.
	window := e.catalog.Size() - 1
	if window < 0 {
		window = 0
	}
	recent, err := e.store.RecentPuzzleIDs(ctx, chatID, window)
	if err != nil {
		return nil, err
	}

	puzzle, err := e.catalog.Select(category, difficulty, recent)
	if errors.Is(err, catalog.ErrNotFound) && len(recent) > 0 {
		// Pool exhausted for this chat: reset the window and retry once.
		puzzle, err = e.catalog.Select(category, difficulty, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("select puzzle: %w", err)
	}

	session := &models.GameSession{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		PuzzleID:   puzzle.ID,
		Emojis:     puzzle.Emojis,
		Answer:     puzzle.Answer,
		Category:   puzzle.Category,
		Difficulty: puzzle.Difficulty,
		Status:     models.StatusActive,
		StartedAt:  e.now().UTC(),
	}
	if err := e.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info().Int64("chat", chatID).Str("puzzle", puzzle.ID).Msg("game started")
	return session, nil
}

// SubmitGuess judges one guess. The guess and the answer are compared by
// exact equality of their normalized forms.
func (e *Engine) SubmitGuess(ctx context.Context, chatID, userID int64, userName, text string) (*GuessOutcome, error) {
	lock := e.lockChat(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.store.GetActiveSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}

	attempts, err := e.store.CountUserGuesses(ctx, session.ID, userID)
	if err != nil {
		return nil, err
	}
	if e.cfg.MaxAttemptsPerUser > 0 && attempts >= e.cfg.MaxAttemptsPerUser {
		return nil, ErrAttemptsExhausted
	}

	if err := e.store.RecordGuess(ctx, session.ID, userID, text); err != nil {
		return nil, err
	}

	if NormalizeAnswer(text) != NormalizeAnswer(session.Answer) {
		return &GuessOutcome{Won: false, Session: session, Attempt: attempts + 1}, nil
	}

	endedAt := e.now().UTC()
	elapsed := endedAt.Sub(session.StartedAt)
	factor := e.cfg.SpeedFactor(elapsed)
	points := int(float64(e.cfg.PointsCorrect) * e.cfg.DifficultyMultipliers[session.Difficulty] * factor)

	won, err := e.store.FinishSessionWin(ctx, session, userID, userName, points, endedAt)
	if err != nil {
		return nil, err
	}
	if !won {
		// The sweep or a concurrent resolution closed the session first.
		return nil, ErrNoActiveGame
	}

	session.Status = models.StatusWon
	session.EndedAt = &endedAt
	session.WinnerID = &userID
	session.WinnerName = userName

	log.Info().Int64("chat", chatID).Int64("user", userID).Int("points", points).
		Str("puzzle", session.PuzzleID).Msg("game won")

	return &GuessOutcome{
		Won:        true,
		Session:    session,
		Points:     points,
		Elapsed:    elapsed,
		SpeedBonus: factor > 1.0,
		Attempt:    attempts + 1,
	}, nil
}

// RequestHint reveals the next hint. The reveal count never exceeds the
// puzzle's hint list, and is additionally capped by MAX_HINTS.
func (e *Engine) RequestHint(ctx context.Context, chatID, userID int64) (*HintOutcome, error) {
	lock := e.lockChat(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.store.GetActiveSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}

	puzzle, ok := e.catalog.Get(session.PuzzleID)
	if !ok || len(puzzle.Hints) == 0 {
		return nil, ErrHintsExhausted
	}

	total := len(puzzle.Hints)
	if e.cfg.MaxHints > 0 && e.cfg.MaxHints < total {
		total = e.cfg.MaxHints
	}
	if session.HintsGiven >= total {
		return nil, ErrHintsExhausted
	}

	hint := puzzle.Hints[session.HintsGiven]
	session.HintsGiven++
	if err := e.store.UpdateSessionHints(ctx, session.ID, session.HintsGiven); err != nil {
		return nil, err
	}
	if err := e.store.IncrementHintsUsed(ctx, userID); err != nil {
		log.Warn().Err(err).Int64("user", userID).Msg("failed to credit hint usage")
	}

	return &HintOutcome{Hint: hint, Index: session.HintsGiven, Total: total}, nil
}

// ForceEnd closes the chat's game without a winner and reveals the answer.
func (e *Engine) ForceEnd(ctx context.Context, chatID int64) (*models.GameSession, error) {
	lock := e.lockChat(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.store.GetActiveSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}

	endedAt := e.now().UTC()
	closed, err := e.store.CloseSession(ctx, session.ID, models.StatusEnded, endedAt)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrNoActiveGame
	}
	session.Status = models.StatusEnded
	session.EndedAt = &endedAt

	if len(session.Participants) > 0 {
		if err := e.store.CreditGamesPlayed(ctx, session.Participants); err != nil {
			log.Warn().Err(err).Int64("chat", chatID).Msg("failed to credit participants")
		}
	}

	log.Info().Int64("chat", chatID).Str("puzzle", session.PuzzleID).Msg("game force-ended")
	return session, nil
}

// SweepTimeouts closes every active session whose timeout has passed and
// returns one notice per closed game. It runs on a fixed interval from main;
// the per-chat lock makes it lose cleanly to a concurrent winning guess.
func (e *Engine) SweepTimeouts(ctx context.Context, now time.Time) ([]TimeoutNotice, error) {
	cutoff := now.UTC().Add(-e.cfg.GameTimeout)
	expired, err := e.store.ExpiredActiveSessions(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	var notices []TimeoutNotice
	for i := range expired {
		session := &expired[i]

		lock := e.lockChat(session.ChatID)
		lock.Lock()
		closed, err := e.store.CloseSession(ctx, session.ID, models.StatusTimeout, now.UTC())
		if err != nil {
			lock.Unlock()
			log.Error().Err(err).Int64("chat", session.ChatID).Msg("failed to time out session")
			continue
		}
		if closed {
			participants, err := e.store.SessionParticipants(ctx, session.ID)
			if err == nil && len(participants) > 0 {
				if err := e.store.CreditGamesPlayed(ctx, participants); err != nil {
					log.Warn().Err(err).Int64("chat", session.ChatID).Msg("failed to credit participants")
				}
			}
			notices = append(notices, TimeoutNotice{
				ChatID:     session.ChatID,
				Answer:     session.Answer,
				Emojis:     session.Emojis,
				Category:   session.Category,
				Difficulty: session.Difficulty,
			})
			log.Info().Int64("chat", session.ChatID).Str("puzzle", session.PuzzleID).Msg("game timed out")
		}
		lock.Unlock()
	}
	return notices, nil
}
