package service

import (
	"context"
	"testing"

	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

type fakeStats struct {
	users      []models.User
	chats      []models.ChatStat
	ranks      map[int64]int
	lastLimit  int
	chatsLimit int
}

func (f *fakeStats) TopUsers(_ context.Context, limit int) ([]models.User, error) {
	f.lastLimit = limit
	if limit > len(f.users) {
		limit = len(f.users)
	}
	return f.users[:limit], nil
}

func (f *fakeStats) TopChats(_ context.Context, limit int) ([]models.ChatStat, error) {
	f.chatsLimit = limit
	if limit > len(f.chats) {
		limit = len(f.chats)
	}
	return f.chats[:limit], nil
}

func (f *fakeStats) UserRank(_ context.Context, tgID int64) (int, error) {
	return f.ranks[tgID], nil
}

func (f *fakeStats) GetUser(_ context.Context, tgID int64) (*models.User, error) {
	for i := range f.users {
		if f.users[i].TelegramID == tgID {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStats) GetChatStat(_ context.Context, chatID int64) (*models.ChatStat, error) {
	for i := range f.chats {
		if f.chats[i].ChatID == chatID {
			return &f.chats[i], nil
		}
	}
	return nil, nil
}

func TestTopUsersDefaultLimit(t *testing.T) {
	fake := &fakeStats{}
	svc := NewLeaderboardService(fake)

	if _, err := svc.TopUsers(context.Background(), 0); err != nil {
		t.Fatalf("TopUsers() error: %v", err)
	}
	if fake.lastLimit != 10 {
		t.Errorf("limit passed through = %d, want default 10", fake.lastLimit)
	}

	if _, err := svc.TopUsers(context.Background(), 3); err != nil {
		t.Fatalf("TopUsers() error: %v", err)
	}
	if fake.lastLimit != 3 {
		t.Errorf("limit passed through = %d, want 3", fake.lastLimit)
	}
}

func TestUserPosition(t *testing.T) {
	fake := &fakeStats{
		users: []models.User{
			{TelegramID: 1, FirstName: "Alice", Score: 100},
			{TelegramID: 2, FirstName: "Bob", Score: 50},
		},
		ranks: map[int64]int{1: 1, 2: 2},
	}
	svc := NewLeaderboardService(fake)

	user, rank, err := svc.UserPosition(context.Background(), 2)
	if err != nil {
		t.Fatalf("UserPosition() error: %v", err)
	}
	if user == nil || user.FirstName != "Bob" {
		t.Fatalf("UserPosition() user = %+v, want Bob", user)
	}
	if rank != 2 {
		t.Errorf("rank = %d, want 2", rank)
	}
}

func TestUserPositionUnknownUser(t *testing.T) {
	svc := NewLeaderboardService(&fakeStats{})

	user, rank, err := svc.UserPosition(context.Background(), 99)
	if err != nil {
		t.Fatalf("UserPosition() error: %v", err)
	}
	if user != nil || rank != 0 {
		t.Errorf("UserPosition() = (%+v, %d), want (nil, 0)", user, rank)
	}
}

func TestGroupStatsUnknownChat(t *testing.T) {
	svc := NewLeaderboardService(&fakeStats{})
	stat, err := svc.GroupStats(context.Background(), -100)
	if err != nil {
		t.Fatalf("GroupStats() error: %v", err)
	}
	if stat != nil {
		t.Errorf("GroupStats() = %+v, want nil", stat)
	}
}
