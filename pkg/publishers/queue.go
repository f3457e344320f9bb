package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// queueMessage is an encoded event ready for a broker.
type queueMessage struct {
	Body       []byte
	Subject    string
	Attributes map[string]string
}

// queueSender hands one message to a broker and returns the broker's message id.
type queueSender interface {
	send(ctx context.Context, msg queueMessage) (string, error)
}

// senderFactories builds the sender for each queue provider.
var senderFactories = map[string]func(ctx context.Context, q *QueuePublisherConfig) (queueSender, error){
	QueueProviderAWSSQS: func(ctx context.Context, q *QueuePublisherConfig) (queueSender, error) {
		return newSQSSender(ctx, q.AWS)
	},
	QueueProviderAWSSNS: func(ctx context.Context, q *QueuePublisherConfig) (queueSender, error) {
		return newSNSSender(ctx, q.SNS)
	},
	QueueProviderGCP: func(ctx context.Context, q *QueuePublisherConfig) (queueSender, error) {
		return newPubSubSender(ctx, q.GCP)
	},
}

// queuePublisher encodes article events and delivers them through a broker sender.
type queuePublisher struct {
	id       string
	provider string
	sender   queueSender
	log      Logger
}

func newQueuePublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("publisher %q missing queue configuration", cfg.ID)
	}

	factory, ok := senderFactories[cfg.Queue.Provider]
	if !ok {
		return nil, fmt.Errorf("publisher %q: queue provider %q is not supported", cfg.ID, cfg.Queue.Provider)
	}
	sender, err := factory(ctx, cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}

	return &queuePublisher{
		id:       cfg.ID,
		provider: cfg.Queue.Provider,
		sender:   sender,
		log:      ensureLogger(log),
	}, nil
}

func (p *queuePublisher) ID() string   { return p.id }
func (p *queuePublisher) Type() string { return TypeQueue }

// Publish encodes evt and sends it. Failures are logged and returned.
func (p *queuePublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := encodeQueueMessage(evt)
	if err != nil {
		return fmt.Errorf("publisher %s: %w", p.id, err)
	}

	msgID, err := p.sender.send(ctx, msg)
	if err != nil {
		p.log.ErrorObj("queue publish failed", "publisher_queue_error", map[string]any{
			"publisher_id": p.id,
			"provider":     p.provider,
			"article_id":   evt.Article.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("publisher %s: %s send failed: %w", p.id, p.provider, err)
	}

	p.log.DebugObj("queue publish delivered", "publisher_queue_delivery", map[string]any{
		"publisher_id": p.id,
		"provider":     p.provider,
		"article_id":   evt.Article.ID,
		"message_id":   msgID,
	})
	return nil
}

// Close releases the sender if it holds a client.
func (p *queuePublisher) Close() error {
	if c, ok := p.sender.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func encodeQueueMessage(evt Event) (queueMessage, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return queueMessage{}, fmt.Errorf("marshal event %s: %w", evt.ID, err)
	}
	return queueMessage{
		Body:    body,
		Subject: evt.Type,
		Attributes: map[string]string{
			"event_type":  evt.Type,
			"provider_id": evt.ProviderID,
			"article_id":  strconv.Itoa(evt.Article.ID),
		},
	}, nil
}
