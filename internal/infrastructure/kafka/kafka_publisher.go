package publisher

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes moderation events to topic, keyed by post id so
// every event of one post lands on the same partition in order.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (k *KafkaPublisher) PublishModerationEvent(ctx context.Context, event domain.ModerationEvent) error {
	msg, err := json.Marshal(toModerationEvent(event))
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(event.PostID, 10)),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)
