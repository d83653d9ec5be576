// Package notify delivers user-facing messages produced by the API core.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows a single human-readable message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Notification is one delivered message.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed logs every notification and keeps the most recent ones so local
// tools can poll them from the gateway.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	logger   *zap.Logger
}

const defaultFeedCapacity = 100

func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{
		capacity: defaultFeedCapacity,
		logger:   logger,
	}
}

func (f *Feed) Notify(level Level, message string) {
	fields := []zap.Field{zap.String("level", string(level)), zap.String("message", message)}
	switch level {
	case LevelError:
		f.logger.Error("Notification", fields...)
	case LevelWarning:
		f.logger.Warn("Notification", fields...)
	default:
		f.logger.Info("Notification", fields...)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Notification{Level: level, Message: message, CreatedAt: time.Now()})
	if len(f.items) > f.capacity {
		f.items = f.items[len(f.items)-f.capacity:]
	}
}

// Recent returns up to limit notifications, newest last.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]Notification, limit)
	copy(out, f.items[len(f.items)-limit:])
	return out
}
