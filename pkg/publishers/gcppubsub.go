package publishers

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubSender publishes to one Pub/Sub topic and waits for the ack.
type pubsubSender struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func newPubSubSender(ctx context.Context, cfg *GCPQueueConfig) (queueSender, error) {
	if cfg == nil {
		return nil, errors.New("gcp pubsub configuration is missing")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client for project %s: %w", cfg.ProjectID, err)
	}
	return &pubsubSender{client: client, topic: client.Topic(cfg.Topic)}, nil
}

func (s *pubsubSender) send(ctx context.Context, msg queueMessage) (string, error) {
	id, err := s.topic.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: msg.Attributes}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("pubsub publish to %s: %w", s.topic.ID(), err)
	}
	return id, nil
}

// Close flushes pending publishes and closes the client.
func (s *pubsubSender) Close() error {
	s.topic.Stop()
	return s.client.Close()
}
