package notify

import (
	"context"

	"bazaar-be/internal/logger"

	"go.uber.org/zap"
)

// Template names routed to the delivery provider.
const (
	TemplateStoreApproved = "store_approved"
	TemplateStoreRejected = "store_rejected"
	TemplateOrderStatus   = "order_status_changed"
)

type Notification struct {
	Recipient string
	Template  string
	Payload   map[string]string
}

// Notifier hands a notification request to the delivery collaborator.
// Delivery is not guaranteed; only that the request was issued.
type Notifier interface {
	Send(ctx context.Context, n Notification)
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that records requests in the log.
// Stands in for the external delivery service in non-production setups.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Send(ctx context.Context, n Notification) {
	logger.FromCtx(ctx).Info("notification issued",
		zap.String("recipient", n.Recipient),
		zap.String("template", n.Template),
		zap.Any("payload", n.Payload),
	)
}
