package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func TestErrorNotifierForwardsErrors(t *testing.T) {
	fake := &fakeBot{}
	n := &ErrorNotifier{bot: fake, chatID: 5, limit: rate.NewLimiter(rate.Every(time.Hour), 2)}

	n.Run(nil, zerolog.InfoLevel, "routine event")
	n.Run(nil, zerolog.WarnLevel, "minor hiccup")
	if got := len(fake.messages()); got != 0 {
		t.Fatalf("sent %d messages below error level, want 0", got)
	}

	n.Run(nil, zerolog.ErrorLevel, "database ping failed")
	msgs := fake.messages()
	if len(msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgs))
	}
	if msgs[0].ChatID != 5 {
		t.Errorf("ChatID = %d, want 5", msgs[0].ChatID)
	}
	if !strings.Contains(msgs[0].Text, "database ping failed") {
		t.Errorf("message = %q, want the log message included", msgs[0].Text)
	}
}

func TestErrorNotifierRateLimitsFloods(t *testing.T) {
	fake := &fakeBot{}
	n := &ErrorNotifier{bot: fake, chatID: 5, limit: rate.NewLimiter(rate.Every(time.Hour), 2)}

	for i := 0; i < 10; i++ {
		n.Run(nil, zerolog.ErrorLevel, "send failed")
	}
	if got := len(fake.messages()); got != 2 {
		t.Errorf("sent %d messages during flood, want 2 (burst)", got)
	}
}

func TestErrorNotifierIgnoresNonEvents(t *testing.T) {
	fake := &fakeBot{}
	n := &ErrorNotifier{bot: fake, chatID: 5, limit: rate.NewLimiter(rate.Every(time.Hour), 2)}

	n.Run(nil, zerolog.NoLevel, "no level attached")
	n.Run(nil, zerolog.ErrorLevel, "")
	if got := len(fake.messages()); got != 0 {
		t.Errorf("sent %d messages, want 0", got)
	}
}
