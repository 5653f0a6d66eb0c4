package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/queue"
)

// EventPublisher delivers activity events; queue.Publisher and
// queue.NopPublisher implement it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

const publishTimeout = 3 * time.Second

// events publishes on a best-effort basis.  A failed publish is logged and
// never fails the request that triggered it.
type events struct {
	pub EventPublisher
	log *logrus.Logger
}

func (e events) emit(ctx context.Context, ev queue.ActivityEvent) {
	if e.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"event_id":   ev.ID,
			"event_type": ev.Type,
		}).Warn("Failed to publish activity event")
	}
}
