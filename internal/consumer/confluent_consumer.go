package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	pkglog "github.com/vsp-live/profile-service/pkg/log"
)

// ConfluentConsumer implements ProfileEventConsumer using confluent-kafka-go.
type ConfluentConsumer struct {
	consumer   *kafka.Consumer
	dispatcher *Dispatcher
	doneCh     chan struct{}
}

// NewConfluentConsumer creates a new Kafka consumer for account events.
func NewConfluentConsumer(brokers, groupID string, dispatcher *Dispatcher) (*ConfluentConsumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &ConfluentConsumer{
		consumer:   c,
		dispatcher: dispatcher,
		doneCh:     make(chan struct{}),
	}, nil
}

// Start begins consuming account events.
func (cc *ConfluentConsumer) Start(ctx context.Context) error {
	topics := cc.dispatcher.Topics()
	if err := cc.consumer.SubscribeTopics(topics, nil); err != nil {
		return fmt.Errorf("failed to subscribe to topics %v: %w", topics, err)
	}

	l := pkglog.L()
	l.Info().Strs("topics", topics).Msg("profile event consumer started")

	go cc.consumeLoop(ctx)

	return nil
}

func (cc *ConfluentConsumer) consumeLoop(ctx context.Context) {
	l := pkglog.L()
	defer close(cc.doneCh)

	for {
		select {
		case <-ctx.Done():
			l.Info().Msg("profile event consumer shutting down")
			return
		default:
			msg, err := cc.consumer.ReadMessage(100 * time.Millisecond)
			if err != nil {
				if err.(kafka.Error).Code() == kafka.ErrTimedOut {
					continue
				}
				l.Error().Err(err).Msg("profile event consumer error")
				continue
			}

			cc.processMessage(ctx, msg)
		}
	}
}

func (cc *ConfluentConsumer) processMessage(ctx context.Context, msg *kafka.Message) {
	l := pkglog.L()

	topic := ""
	if msg.TopicPartition.Topic != nil {
		topic = *msg.TopicPartition.Topic
	}

	if err := cc.dispatcher.Dispatch(ctx, topic, msg.Value); err != nil {
		l.Error().Err(err).Str(pkglog.FieldTopic, topic).Msg("failed to handle profile event")
	}
}

// Close stops the consumer and releases resources.
func (cc *ConfluentConsumer) Close() error {
	if err := cc.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	<-cc.doneCh
	return nil
}
