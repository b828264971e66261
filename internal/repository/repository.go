package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/strad-dev131/GuessWithEmoji/internal/database"
	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

// ErrStoreUnavailable is returned once the bounded retry at the persistence
// boundary is exhausted. Callers surface it as a generic "try again" reply.
var ErrStoreUnavailable = errors.New("store unavailable")

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// withRetry runs op up to retryAttempts times with linear backoff. sql.ErrNoRows
// is not a transient failure and is returned as-is.
func withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if err = op(); err == nil || errors.Is(err, sql.ErrNoRows) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt+1)):
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// User methods

func (r *Repository) GetOrCreateUser(ctx context.Context, tgID int64, username, firstName string) (*models.User, error) {
	var user models.User
	err := withRetry(ctx, func() error {
		err := r.scanUser(r.db.QueryRow(`
			SELECT telegram_id, username, first_name, score, games_played, games_won,
			       correct_guesses, hints_used, joined_at, last_active, banned
			FROM users WHERE telegram_id = ?
		`, tgID), &user)

		if errors.Is(err, sql.ErrNoRows) {
			now := time.Now().UTC()
			_, err = r.db.Exec(`
				INSERT INTO users (telegram_id, username, first_name, joined_at, last_active)
				VALUES (?, ?, ?, ?, ?)
			`, tgID, username, firstName, now, now)
			if err != nil {
				return err
			}
			user = models.User{TelegramID: tgID, Username: username, FirstName: firstName, JoinedAt: now, LastActive: now}
			return nil
		}
		if err != nil {
			return err
		}

		// Refresh identity fields and activity on every contact.
		if user.Username != username || user.FirstName != firstName {
			user.Username, user.FirstName = username, firstName
		}
		_, err = r.db.Exec(`
			UPDATE users SET username = ?, first_name = ?, last_active = ? WHERE telegram_id = ?
		`, username, firstName, time.Now().UTC(), tgID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUser(ctx context.Context, tgID int64) (*models.User, error) {
	var user models.User
	err := r.scanUser(r.db.QueryRow(`
		SELECT telegram_id, username, first_name, score, games_played, games_won,
		       correct_guesses, hints_used, joined_at, last_active, banned
		FROM users WHERE telegram_id = ?
	`, tgID), &user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanUser(row rowScanner, user *models.User) error {
	var banned int
	err := row.Scan(
		&user.TelegramID, &user.Username, &user.FirstName, &user.Score,
		&user.GamesPlayed, &user.GamesWon, &user.CorrectGuesses, &user.HintsUsed,
		&user.JoinedAt, &user.LastActive, &banned,
	)
	user.Banned = banned != 0
	return err
}

// IncrementHintsUsed credits one revealed hint to a user.
func (r *Repository) IncrementHintsUsed(ctx context.Context, tgID int64) error {
	return withRetry(ctx, func() error {
		_, err := r.db.Exec(`UPDATE users SET hints_used = hints_used + 1 WHERE telegram_id = ?`, tgID)
		return err
	})
}

// CreditGamesPlayed adds one played game to each participant of a session
// that ended without a winner.
func (r *Repository) CreditGamesPlayed(ctx context.Context, userIDs []int64) error {
	return withRetry(ctx, func() error {
		for _, id := range userIDs {
			if _, err := r.db.Exec(`
				UPDATE users SET games_played = games_played + 1 WHERE telegram_id = ?
			`, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Chat methods

// TouchChat upserts the chat stat row, keeping the title fresh.
func (r *Repository) TouchChat(ctx context.Context, chatID int64, title string) error {
	return withRetry(ctx, func() error {
		res, err := r.db.Exec(`UPDATE chat_stats SET title = ? WHERE chat_id = ?`, title, chatID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		_, err = r.db.Exec(`INSERT INTO chat_stats (chat_id, title) VALUES (?, ?)`, chatID, title)
		return err
	})
}

func (r *Repository) GetChatStat(ctx context.Context, chatID int64) (*models.ChatStat, error) {
	var stat models.ChatStat
	var lastGame sql.NullTime
	err := r.db.QueryRow(`
		SELECT chat_id, title, total_games, total_points, last_game_at
		FROM chat_stats WHERE chat_id = ?
	`, chatID).Scan(&stat.ChatID, &stat.Title, &stat.TotalGames, &stat.TotalPoints, &lastGame)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastGame.Valid {
		stat.LastGameAt = &lastGame.Time
	}
	return &stat, nil
}

// AllChatIDs returns every chat the bot has seen, for broadcasts.
func (r *Repository) AllChatIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(`SELECT chat_id FROM chat_stats ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Session methods

// CreateSession inserts the session and bumps the puzzle's usage counter in
// one transaction, so a retried attempt replays an atomic unit instead of
// tripping over its own half-applied writes.
func (r *Repository) CreateSession(ctx context.Context, s *models.GameSession) error {
	return withRetry(ctx, func() error {
		tx, err := r.db.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		rw := r.db.Dialect.RewriteQuery

		if _, err := tx.Exec(rw(`
			INSERT INTO game_sessions (id, chat_id, puzzle_id, emojis, answer, category,
			                           difficulty, status, started_at, hints_given)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), s.ID, s.ChatID, s.PuzzleID, s.Emojis, s.Answer, string(s.Category),
			string(s.Difficulty), string(s.Status), s.StartedAt, s.HintsGiven); err != nil {
			return err
		}

		res, err := tx.Exec(rw(`
			UPDATE puzzle_stats SET times_used = times_used + 1 WHERE puzzle_id = ?
		`), s.PuzzleID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.Exec(rw(`
				INSERT INTO puzzle_stats (puzzle_id, times_used) VALUES (?, 1)
			`), s.PuzzleID); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// GetActiveSession returns the chat's active session, or nil when the chat
// has no game running.
func (r *Repository) GetActiveSession(ctx context.Context, chatID int64) (*models.GameSession, error) {
	var s models.GameSession
	var endedAt sql.NullTime
	var winnerID sql.NullInt64
	var category, difficulty, status string

	err := r.db.QueryRow(`
		SELECT id, chat_id, puzzle_id, emojis, answer, category, difficulty, status,
		       started_at, ended_at, winner_id, winner_name, hints_given
		FROM game_sessions WHERE chat_id = ? AND status = ?
	`, chatID, string(models.StatusActive)).Scan(
		&s.ID, &s.ChatID, &s.PuzzleID, &s.Emojis, &s.Answer, &category, &difficulty,
		&status, &s.StartedAt, &endedAt, &winnerID, &s.WinnerName, &s.HintsGiven,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Category = models.Category(category)
	s.Difficulty = models.Difficulty(difficulty)
	s.Status = models.SessionStatus(status)
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	if winnerID.Valid {
		s.WinnerID = &winnerID.Int64
	}

	participants, err := r.SessionParticipants(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Participants = participants
	return &s, nil
}

// ExpiredActiveSessions lists active sessions whose deadline has passed.
func (r *Repository) ExpiredActiveSessions(ctx context.Context, cutoff time.Time) ([]models.GameSession, error) {
	rows, err := r.db.Query(`
		SELECT id, chat_id, puzzle_id, emojis, answer, category, difficulty, started_at, hints_given
		FROM game_sessions WHERE status = ? AND started_at < ?
	`, string(models.StatusActive), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		var s models.GameSession
		var category, difficulty string
		if err := rows.Scan(&s.ID, &s.ChatID, &s.PuzzleID, &s.Emojis, &s.Answer,
			&category, &difficulty, &s.StartedAt, &s.HintsGiven); err != nil {
			return nil, err
		}
		s.Category = models.Category(category)
		s.Difficulty = models.Difficulty(difficulty)
		s.Status = models.StatusActive
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateSessionHints persists the revealed-hint count.
func (r *Repository) UpdateSessionHints(ctx context.Context, sessionID string, hintsGiven int) error {
	return withRetry(ctx, func() error {
		_, err := r.db.Exec(`UPDATE game_sessions SET hints_given = ? WHERE id = ?`, hintsGiven, sessionID)
		return err
	})
}

// RecordGuess appends one guess to the session's guess log.
func (r *Repository) RecordGuess(ctx context.Context, sessionID string, userID int64, guess string) error {
	return withRetry(ctx, func() error {
		_, err := r.db.Exec(`
			INSERT INTO session_guesses (session_id, user_id, guess, created_at)
			VALUES (?, ?, ?, ?)
		`, sessionID, userID, guess, time.Now().UTC())
		return err
	})
}

// CountUserGuesses returns how many guesses a user has made in a session.
func (r *Repository) CountUserGuesses(ctx context.Context, sessionID string, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM session_guesses WHERE session_id = ? AND user_id = ?
	`, sessionID, userID).Scan(&n)
	return n, err
}

// SessionParticipants returns the distinct users that guessed in a session.
func (r *Repository) SessionParticipants(ctx context.Context, sessionID string) ([]int64, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT user_id FROM session_guesses WHERE session_id = ? ORDER BY user_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecentPuzzleIDs returns the puzzle ids most recently served to a chat,
// newest first. This backs the anti-repetition window.
func (r *Repository) RecentPuzzleIDs(ctx context.Context, chatID int64, limit int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT puzzle_id FROM game_sessions WHERE chat_id = ?
		ORDER BY started_at DESC LIMIT ?
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FinishSessionWin atomically marks the session won, credits the winner's
// stats, the chat's stats, and the puzzle's solve counter. A crash can never
// leave a won session without the matching score credit. The bool reports
// whether this call resolved the session; false means a concurrent guess or
// the timeout sweep got there first.
func (r *Repository) FinishSessionWin(ctx context.Context, s *models.GameSession, winnerID int64, winnerName string, points int, endedAt time.Time) (bool, error) {
	var won bool
	err := withRetry(ctx, func() error {
		won = false

		tx, err := r.db.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		rw := r.db.Dialect.RewriteQuery

		res, err := tx.Exec(rw(`
			UPDATE game_sessions
			SET status = ?, ended_at = ?, winner_id = ?, winner_name = ?
			WHERE id = ? AND status = ?
		`), string(models.StatusWon), endedAt, winnerID, winnerName, s.ID, string(models.StatusActive))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Lost the race against a concurrent resolution; nothing to credit.
			return nil
		}

		if _, err := tx.Exec(rw(`
			UPDATE users
			SET score = score + ?, games_played = games_played + 1,
			    games_won = games_won + 1, correct_guesses = correct_guesses + 1,
			    last_active = ?
			WHERE telegram_id = ?
		`), points, endedAt, winnerID); err != nil {
			return err
		}

		if _, err := tx.Exec(rw(`
			UPDATE chat_stats
			SET total_games = total_games + 1, total_points = total_points + ?, last_game_at = ?
			WHERE chat_id = ?
		`), points, endedAt, s.ChatID); err != nil {
			return err
		}

		if _, err := tx.Exec(rw(`
			UPDATE puzzle_stats SET times_solved = times_solved + 1 WHERE puzzle_id = ?
		`), s.PuzzleID); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// CloseSession marks a session timed out or force-ended. The status guard
// makes the close a no-op if a guess already resolved the session. The guard
// and the chat_stats bump commit together; a failure rolls both back, so a
// retry sees the session still active instead of mistaking its own earlier
// write for a lost race.
func (r *Repository) CloseSession(ctx context.Context, sessionID string, status models.SessionStatus, endedAt time.Time) (bool, error) {
	var closed bool
	err := withRetry(ctx, func() error {
		closed = false

		tx, err := r.db.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		rw := r.db.Dialect.RewriteQuery

		res, err := tx.Exec(rw(`
			UPDATE game_sessions SET status = ?, ended_at = ? WHERE id = ? AND status = ?
		`), string(status), endedAt, sessionID, string(models.StatusActive))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}

		if _, err := tx.Exec(rw(`
			UPDATE chat_stats SET total_games = total_games + 1, last_game_at = ?
			WHERE chat_id = (SELECT chat_id FROM game_sessions WHERE id = ?)
		`), endedAt, sessionID); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		closed = true
		return nil
	})
	return closed, err
}

// Leaderboard queries

// TopUsers returns users by descending score, ties broken by telegram id for
// a stable order. Banned users are skipped.
func (r *Repository) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT telegram_id, username, first_name, score, games_played, games_won,
		       correct_guesses, hints_used, joined_at, last_active, banned
		FROM users WHERE banned = 0
		ORDER BY score DESC, telegram_id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := r.scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// TopChats returns groups by descending cumulative points, ties by chat id.
func (r *Repository) TopChats(ctx context.Context, limit int) ([]models.ChatStat, error) {
	rows, err := r.db.Query(`
		SELECT chat_id, title, total_games, total_points, last_game_at
		FROM chat_stats
		ORDER BY total_points DESC, chat_id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.ChatStat
	for rows.Next() {
		var stat models.ChatStat
		var lastGame sql.NullTime
		if err := rows.Scan(&stat.ChatID, &stat.Title, &stat.TotalGames, &stat.TotalPoints, &lastGame); err != nil {
			return nil, err
		}
		if lastGame.Valid {
			stat.LastGameAt = &lastGame.Time
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// UserRank returns a user's 1-based global rank, or 0 when unknown.
func (r *Repository) UserRank(ctx context.Context, tgID int64) (int, error) {
	user, err := r.GetUser(ctx, tgID)
	if err != nil || user == nil {
		return 0, err
	}
	var higher int
	err = r.db.QueryRow(`
		SELECT COUNT(*) FROM users
		WHERE banned = 0 AND (score > ? OR (score = ? AND telegram_id < ?))
	`, user.Score, user.Score, tgID).Scan(&higher)
	if err != nil {
		return 0, err
	}
	return higher + 1, nil
}

// CleanupOldSessions deletes terminal sessions older than the cutoff along
// with their guess logs. Recent history stays for the anti-repetition window.
func (r *Repository) CleanupOldSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	if _, err := r.db.Exec(`
		DELETE FROM session_guesses WHERE session_id IN (
			SELECT id FROM game_sessions WHERE status != ? AND ended_at < ?
		)
	`, string(models.StatusActive), cutoff); err != nil {
		return 0, err
	}
	res, err := r.db.Exec(`
		DELETE FROM game_sessions WHERE status != ? AND ended_at < ?
	`, string(models.StatusActive), cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
