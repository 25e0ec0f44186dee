package ports

import (
	"context"

	"vertex/internal/domain/model"
)

// Notifier delivers a progress notification to one channel.
type Notifier interface {
	// Name identifies the channel in logs, e.g. "discord".
	Name() string
	Send(ctx context.Context, notification model.Notification) error
}
