package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/nats-io/nats.go"
)

// Subject carries invalidation messages; the payload is the view name.
const Subject = "views.invalidated"

// Publisher is the part of *nats.Conn the invalidator needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Subscriber is the part of *nats.Conn Listen needs.
type Subscriber interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// NatsInvalidator publishes the view name on Subject.
type NatsInvalidator struct {
	pub Publisher
}

func NewNatsInvalidator(pub Publisher) *NatsInvalidator {
	return &NatsInvalidator{pub: pub}
}

func (n *NatsInvalidator) Invalidate(ctx context.Context, view View) error {
	if err := n.pub.Publish(Subject, []byte(view)); err != nil {
		return fmt.Errorf("publish %s invalidation: %w", view, err)
	}
	return nil
}

// Listen subscribes to Subject and hands every received view to inv.
// Failures are logged; a message is never redelivered.
func Listen(sub Subscriber, inv Invalidator, logger logging.Logger) (*nats.Subscription, error) {
	return sub.Subscribe(Subject, func(msg *nats.Msg) {
		view := View(msg.Data)
		ctx := context.Background()
		if err := inv.Invalidate(ctx, view); err != nil {
			logger.Error(ctx, "view invalidation failed", "view", view, "error", err)
			return
		}
		logger.Debug(ctx, "view invalidated", "view", view)
	})
}
