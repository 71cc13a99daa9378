package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicQuizEvents carries every domain event of the service.
const TopicQuizEvents = "quiz-events"

// WatermillPublisher publishes events on an in-process Watermill pub/sub.
type WatermillPublisher struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewWatermillPublisher(logger *slog.Logger) *WatermillPublisher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &WatermillPublisher{pubSub: pubSub, logger: logger}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = watermill.NewUUID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.SetContext(ctx)

	if err := p.pubSub.Publish(TopicQuizEvents, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

// Subscribe exposes the event stream, used by the audit log consumer.
func (p *WatermillPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, TopicQuizEvents)
}

func (p *WatermillPublisher) Close() error {
	return p.pubSub.Close()
}

// RunAuditConsumer drains the event stream and writes each event to the
// structured log until ctx is cancelled.
func RunAuditConsumer(ctx context.Context, publisher *WatermillPublisher, logger *slog.Logger) error {
	messages, err := publisher.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicQuizEvents, err)
	}

	go func() {
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Warn("discarding malformed event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			logger.Info("domain event",
				"event_id", event.ID,
				"event_type", event.Type,
				"actor_id", event.ActorID,
			)
			msg.Ack()
		}
	}()

	return nil
}
