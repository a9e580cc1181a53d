package notificator

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Delivery is the outcome of one send in a fan-out.
type Delivery struct {
	ChatID int64
	Err    error
}

// Notificator sends best-effort notifications. A failed send is logged and reported,
// never retried.
type Notificator struct {
	logger    *logger.Logger
	messenger models.Messenger
}

func NewNotificator(logger *logger.Logger, messenger models.Messenger) *Notificator {
	return &Notificator{logger: logger, messenger: messenger}
}

// safeCall runs fn, turning a panic into an error.
func (n *Notificator) safeCall(fn func() error, label string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", label,
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("%w: panic in %s: %v", models.ErrExternal, label, r)
		}
	}()
	return fn()
}

// Notify sends text to one user.
func (n *Notificator) Notify(ctx context.Context, chatID int64, text string) error {
	err := n.safeCall(func() error { return n.messenger.SendMessage(ctx, chatID, text) }, "notify")
	if err != nil {
		n.logger.Warn("Failed to deliver notification", "chat_id", chatID, "error", err)
		return fmt.Errorf("%w: %w", models.ErrExternal, err)
	}
	return nil
}

// Broadcast calls send once per recipient, in order, and collects every outcome.
// One failed send never stops the remaining ones.
func (n *Notificator) Broadcast(ctx context.Context, recipients []int64, send func(ctx context.Context, chatID int64) error) []Delivery {
	deliveries := make([]Delivery, 0, len(recipients))
	for _, chatID := range recipients {
		chatID := chatID
		err := n.safeCall(func() error { return send(ctx, chatID) }, "broadcast")
		if err != nil {
			n.logger.Warn("Failed to deliver broadcast", "chat_id", chatID, "error", err)
		}
		deliveries = append(deliveries, Delivery{ChatID: chatID, Err: err})
	}
	return deliveries
}

// Delivered counts successful deliveries.
func Delivered(deliveries []Delivery) int {
	n := 0
	for _, d := range deliveries {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Messenger exposes the underlying sender for callers that attach actions or photos.
func (n *Notificator) Messenger() models.Messenger {
	return n.messenger
}
