package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransferRequested signals a new pending transfer awaiting the recipient.
	KindTransferRequested = "transfer_requested"
	// KindTransferAccepted signals the recipient accepted a transfer.
	KindTransferAccepted = "transfer_accepted"
	// KindTransferDeclined signals the recipient declined a transfer.
	KindTransferDeclined = "transfer_declined"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers transfer lifecycle events to downstream systems, e.g. a
// realtime channel pushing live balance updates to clients. Delivery is best
// effort and never blocks ledger outcomes.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
