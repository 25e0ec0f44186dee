package notify

import (
	"context"
	"errors"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// Composite fans a notification out to every configured notifier.
type Composite struct {
	logger    ports.Logger
	notifiers []ports.Notifier
}

var _ ports.Notifier = (*Composite)(nil)

// NewComposite skips nil notifiers.
func NewComposite(logger ports.Logger, notifiers ...ports.Notifier) *Composite {
	active := make([]ports.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &Composite{logger: logger, notifiers: active}
}

// Name identifies the fan-out notifier in logs.
func (c *Composite) Name() string { return "composite" }

// Len reports how many notifiers are active.
func (c *Composite) Len() int { return len(c.notifiers) }

// Send delivers to all notifiers. It fails only when none succeeded.
func (c *Composite) Send(ctx context.Context, notification model.Notification) error {
	if len(c.notifiers) == 0 {
		return errors.New("no notifiers configured")
	}

	var errs []error
	for _, n := range c.notifiers {
		if err := n.Send(ctx, notification); err != nil {
			errs = append(errs, err)
			if c.logger != nil {
				c.logger.Warn(ctx, "notifier failed", "notifier", n.Name(), "error", err)
			}
		}
	}
	if len(errs) == len(c.notifiers) {
		return errors.Join(errs...)
	}
	return nil
}
