package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/padudon-bit/IndieBook-project/internal/adapter/events"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

// publishTimeout caps how long a workflow call waits on the broker.
const publishTimeout = 3 * time.Second

// publishOrderEvent delivers best effort; failures are logged and never fail the caller.
// The event outlives a cancelled request but not publishTimeout.
func publishOrderEvent(ctx context.Context, p events.Publisher, logger *slog.Logger, kind string, o *model.Order, bookIDs []string, now time.Time) {
	event := events.OrderEvent{
		Type:          kind,
		OrderID:       o.ID.String(),
		CustomerEmail: o.Buyer.Email,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount.StringFixed(2),
		BookIDs:       bookIDs,
		OccurredAt:    now.UTC(),
	}
	if o.RejectionReason != nil {
		event.Reason = *o.RejectionReason
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("order event not published",
			slog.String("type", kind),
			slog.String("order_id", event.OrderID),
			slog.Any("error", err))
	}
}
