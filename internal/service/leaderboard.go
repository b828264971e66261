package service

import (
	"context"

	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

// StatsReader is the read-side slice of the repository the leaderboard needs.
type StatsReader interface {
	TopUsers(ctx context.Context, limit int) ([]models.User, error)
	TopChats(ctx context.Context, limit int) ([]models.ChatStat, error)
	UserRank(ctx context.Context, tgID int64) (int, error)
	GetUser(ctx context.Context, tgID int64) (*models.User, error)
	GetChatStat(ctx context.Context, chatID int64) (*models.ChatStat, error)
}

// LeaderboardService derives rankings from persisted statistics. Pure reads;
// an empty result simply means nobody has played yet.
type LeaderboardService struct {
	repo StatsReader
}

func NewLeaderboardService(repo StatsReader) *LeaderboardService {
	return &LeaderboardService{repo: repo}
}

// TopUsers returns up to limit players by descending score. Ties are broken
// by telegram id so the order is deterministic.
func (s *LeaderboardService) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopUsers(ctx, limit)
}

// TopGroups returns up to limit chats by descending cumulative points.
func (s *LeaderboardService) TopGroups(ctx context.Context, limit int) ([]models.ChatStat, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopChats(ctx, limit)
}

// UserPosition returns a player's stats and 1-based global rank. The user
// may be nil when they have never talked to the bot.
func (s *LeaderboardService) UserPosition(ctx context.Context, tgID int64) (*models.User, int, error) {
	user, err := s.repo.GetUser(ctx, tgID)
	if err != nil || user == nil {
		return nil, 0, err
	}
	rank, err := s.repo.UserRank(ctx, tgID)
	if err != nil {
		return user, 0, err
	}
	return user, rank, nil
}

// GroupStats returns a chat's cumulative stats, or nil when the bot has not
// seen the chat yet.
func (s *LeaderboardService) GroupStats(ctx context.Context, chatID int64) (*models.ChatStat, error) {
	return s.repo.GetChatStat(ctx, chatID)
}
