package notification

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a message to a user through the transport collaborator.
type Notifier interface {
	SendMessage(ctx context.Context, userID, text string) error
}

// LogNotifier is the default Notifier when no transport is attached: it
// records the delivery instead of sending it.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) SendMessage(_ context.Context, userID, text string) error {
	n.Logger.Info("notification",
		zap.String("userId", userID),
		zap.String("text", text))
	return nil
}
