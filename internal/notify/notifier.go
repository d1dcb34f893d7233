// Package notify fans failure messages out to the configured
// notification channels. Delivery is best-effort: channel failures are
// logged and swallowed so they can never mask the outcome that
// triggered them.
package notify

import (
	"context"
	"log/slog"

	"ocicap/internal/config"

	"golang.org/x/sync/errgroup"
)

// Channel delivers one message to one destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// Escalator fans a message out to zero or more channels.
type Escalator struct {
	channels []Channel
}

// NewEscalator assembles the channels enabled in cfg. With nothing
// enabled the escalator is an inert no-op.
func NewEscalator(cfg *config.Config) *Escalator {
	var channels []Channel
	if cfg.NotifyEmail && cfg.Email != "" {
		channels = append(channels, NewEmailChannel(cfg.Email, cfg.EmailPassword))
	}
	if cfg.DiscordWebhook != "" {
		channels = append(channels, NewDiscordChannel(cfg.DiscordWebhook))
	}
	return &Escalator{channels: channels}
}

// Notify sends subject/body on every channel concurrently and waits
// for all deliveries. Errors are logged per channel and never
// returned.
func (e *Escalator) Notify(ctx context.Context, subject, body string) {
	var g errgroup.Group
	for _, channel := range e.channels {
		g.Go(func() error {
			if err := channel.Send(ctx, subject, body); err != nil {
				slog.Warn("notification failed", "channel", channel.Name(), "error", err)
			} else {
				slog.Info("notification sent", "channel", channel.Name())
			}
			return nil
		})
	}
	_ = g.Wait()
}
