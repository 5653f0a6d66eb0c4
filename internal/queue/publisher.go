package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/config"
)

// redialBackoff keeps a dead broker from adding a dial timeout to every
// request.
const redialBackoff = 15 * time.Second

var errBrokerDown = errors.New("broker unavailable")

// Publisher sends ActivityEvents to a durable queue over one lazily opened
// connection.  A failed publish drops the connection; the next publish
// after the backoff dials again.  One caller dials at a time and mu is not
// held while it does, so other publishes fail fast instead of queueing.
type Publisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
	log         *logrus.Logger
	dial        func(url string, cfg amqp.Config) (*amqp.Connection, error)

	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	dialing   bool
	downUntil time.Time
}

func NewPublisher(cfg config.EventsConfig, log *logrus.Logger) *Publisher {
	return &Publisher{
		url:         cfg.URL,
		queue:       cfg.Queue,
		dialTimeout: cfg.DialTimeout,
		log:         log,
		dial:        amqp.DialConfig,
	}
}

// Publish marshals the event and publishes it as a persistent message.
func (p *Publisher) Publish(ctx context.Context, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         ev.Type,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.drop(ch)
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// channel returns the open channel, dialing when needed.  While another
// caller is dialing or the backoff is running it returns errBrokerDown.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	if p.ch != nil && !p.ch.IsClosed() {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	if p.dialing || time.Now().Before(p.downUntil) {
		p.mu.Unlock()
		return nil, errBrokerDown
	}
	p.reset()
	p.dialing = true
	p.mu.Unlock()

	conn, ch, err := p.connect()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.downUntil = time.Now().Add(redialBackoff)
		p.log.WithError(err).Warn("rabbitmq: publisher unavailable")
		return nil, err
	}
	p.conn, p.ch = conn, ch
	p.log.WithField("queue", p.queue).Info("rabbitmq: publisher connected")
	return ch, nil
}

func (p *Publisher) connect() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := p.dial(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}
	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("queue declare: %w", err)
	}
	return conn, ch, nil
}

// drop closes the connection after a failed publish on ch, unless another
// caller already replaced it.
func (p *Publisher) drop(ch *amqp.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.reset()
	}
}

// reset closes the current channel and connection.  Callers hold mu.
func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// NopPublisher discards events; it is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActivityEvent) error { return nil }
