// Package notify delivers learner notifications by email and as broker
// events.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/learnpath/internal/metrics"
)

// Event kinds, used as AMQP routing keys.
const (
	KindTaskAssigned  = "task.assigned"
	KindTaskCompleted = "task.completed"
)

// Message is one notification addressed to a learner.
type Message struct {
	Kind    string
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
	Data    map[string]any
}

// Notifier delivers a Message. Implementations own their timeouts.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Nop discards every message and reports success. Use it only where a
// delivery outcome is irrelevant; New never returns it.
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the notifiers enabled by cfg. The returned closer releases
// broker connections. With no channel configured the Notifier is nil, so
// callers record every message as not delivered.
func New(cfg Config) (Notifier, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		multi   Multi
		closers closers
	)
	if cfg.SMTP.Host != "" {
		multi = append(multi, NewSMTPNotifier(cfg.SMTP))
	}
	if cfg.AMQP.URL != "" {
		n, err := DialAMQP(cfg.AMQP)
		if err != nil {
			return nil, nil, fmt.Errorf("amqp notifier: %w", err)
		}
		multi = append(multi, n)
		closers = append(closers, n)
	}

	switch len(multi) {
	case 0:
		return nil, closers, nil
	case 1:
		return multi[0], closers, nil
	}
	return multi, closers, nil
}

type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for _, cl := range c {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

func observe(channel string, msg Message, err error) {
	if err != nil {
		metrics.Notifications.WithLabelValues(channel, "failed").Inc()
		slog.Warn("notification failed", "channel", channel, "kind", msg.Kind, "to", msg.To, "err", err)
		return
	}
	metrics.Notifications.WithLabelValues(channel, "sent").Inc()
	slog.Info("notification sent", "channel", channel, "kind", msg.Kind, "to", msg.To)
}
