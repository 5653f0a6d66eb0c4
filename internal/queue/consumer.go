package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/config"
)

// ActivityLogFile is the file name the consumer appends to inside its log
// directory.
const ActivityLogFile = "activity.log"

// Consumer reads ActivityEvents from the queue and appends one line per
// event to <LogDir>/activity.log.
type Consumer struct {
	url    string
	queue  string
	logDir string
	log    *logrus.Logger
}

func NewConsumer(cfg config.EventsConfig, log *logrus.Logger) *Consumer {
	return &Consumer{url: cfg.URL, queue: cfg.Queue, logDir: cfg.LogDir, log: log}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithError(err).WithField("retry_in", backoff.String()).Warn("activity-consumer: failed to dial broker")
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithError(err).Warn("activity-consumer: consume loop ended, reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("activity-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.WithField("queue", c.queue).Info("activity-consumer: consuming")

	for d := range msgs {
		if err := c.HandleMessage(d.Body); err != nil {
			c.log.WithError(err).WithField("message_id", d.MessageId).Error("activity-consumer: handle message failed")
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleMessage decodes one message body and appends its log line.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.logDir, ActivityLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev) + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders an event as a single human readable line.
func FormatLine(ev ActivityEvent) string {
	parts := []string{fmt.Sprintf("[%s] %s", ev.OccurredAt, ev.Type)}
	if ev.Actor != "" {
		parts = append(parts, "actor="+ev.Actor)
	}
	if ev.MovieID != 0 {
		parts = append(parts, fmt.Sprintf("movie_id=%d", ev.MovieID))
	}
	if ev.MovieTitle != "" {
		parts = append(parts, fmt.Sprintf("movie=%q", ev.MovieTitle))
	}
	if ev.ShowtimeID != 0 {
		parts = append(parts, fmt.Sprintf("showtime_id=%d", ev.ShowtimeID))
	}
	if ev.StartsAt != "" {
		parts = append(parts, "starts_at="+ev.StartsAt)
	}
	if ev.Price != "" {
		parts = append(parts, fmt.Sprintf("price=%q", ev.Price))
	}
	if ev.ReviewID != 0 {
		parts = append(parts, fmt.Sprintf("review_id=%d", ev.ReviewID))
	}
	if ev.UserEmail != "" {
		parts = append(parts, "user="+ev.UserEmail)
	}
	if ev.Score != 0 {
		parts = append(parts, fmt.Sprintf("score=%d", ev.Score))
	}
	return strings.Join(parts, " | ")
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
