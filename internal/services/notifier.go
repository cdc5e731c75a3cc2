package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"apexcrm/internal/icons"
	"apexcrm/internal/models"
)

// Notifier delivers a notification to one channel.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n models.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n models.Notification) error { return f(ctx, n) }

func NewNotification(kind, level, title, message string) models.Notification {
	return models.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Level:     level,
		Title:     title,
		Message:   message,
		Icon:      icons.ForLevel(level).Name,
		CreatedAt: time.Now(),
	}
}

type channel struct {
	name string
	n    Notifier
}

// Fanout sends every notification to all registered channels. A failing
// channel does not stop the others.
type Fanout struct {
	log      *zap.Logger
	channels []channel
}

func NewFanout(log *zap.Logger) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{log: log}
}

// Add registers a channel. It is not safe to call concurrently with Notify.
func (f *Fanout) Add(name string, n Notifier) *Fanout {
	if n != nil {
		f.channels = append(f.channels, channel{name: name, n: n})
	}
	return f
}

func (f *Fanout) Notify(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	var errs []error
	for _, ch := range f.channels {
		if err := ch.n.Notify(ctx, n); err != nil {
			f.log.Warn("notification channel failed",
				zap.String("channel", ch.name),
				zap.String("kind", n.Kind),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
		}
	}
	return errors.Join(errs...)
}

// externalKind reports whether a notification should leave the dashboards.
func externalKind(kind string) bool {
	return kind == models.KindDealWon || kind == models.KindOverdue
}
