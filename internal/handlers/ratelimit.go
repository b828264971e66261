package handlers

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiters rate-limits commands per user so one spammer cannot starve
// the dispatch loop for everyone else.
type userLimiters struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	perMin   int
}

func newUserLimiters(commandsPerMinute int) *userLimiters {
	if commandsPerMinute <= 0 {
		commandsPerMinute = 30
	}
	return &userLimiters{
		limiters: make(map[int64]*rate.Limiter),
		perMin:   commandsPerMinute,
	}
}

func (l *userLimiters) allow(userID int64) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
