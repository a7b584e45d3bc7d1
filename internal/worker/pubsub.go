package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubPublisher publishes anomaly events to a Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PubSubPublisherConfig holds configuration for the Pub/Sub publisher.
type PubSubPublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPubSubPublisher creates a new Pub/Sub anomaly publisher.
func NewPubSubPublisher(ctx context.Context, cfg PubSubPublisherConfig) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// PublishAnomaly publishes an anomaly event and waits for the server ack.
func (p *PubSubPublisher) PublishAnomaly(ctx context.Context, event AnomalyEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding anomaly event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": eventType(event),
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing anomaly event: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("topic", p.topicName).
		Msg("published anomaly event")

	return nil
}

// Close stops the publisher and closes the Pub/Sub client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

func eventType(event AnomalyEvent) string {
	if event.Cleared {
		return "anomaly_cleared"
	}
	return "anomaly_raised"
}

// Ensure PubSubPublisher implements AnomalyPublisher.
var _ AnomalyPublisher = (*PubSubPublisher)(nil)
