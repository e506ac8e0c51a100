package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notice for the UI: warnings are transient and
// self-explanatory, errors mean a change never reached the account store.
type Level string

const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a dismissible, non-blocking notification. Mutations never fail
// from the consumer's point of view; notices are the only way persistence
// trouble becomes visible.
type Notice struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier receives notices emitted by the engine and its outbox.
type Notifier interface {
	Notify(Notice)
}

func newNotice(level Level, message string) Notice {
	return Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// NoticeLog is a bounded in-memory Notifier; consumers drain it to render
// toasts. Oldest notices are dropped once the cap is reached.
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
	max     int
}

func NewNoticeLog(max int) *NoticeLog {
	if max <= 0 {
		max = 32
	}
	return &NoticeLog{max: max}
}

func (l *NoticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
	if len(l.notices) > l.max {
		l.notices = l.notices[len(l.notices)-l.max:]
	}
}

// Drain returns all pending notices and empties the log.
func (l *NoticeLog) Drain() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.notices
	l.notices = nil
	return out
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}
