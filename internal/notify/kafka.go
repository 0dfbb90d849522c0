package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"internwatch/internal/domain"
)

const (
	EventPostingNew   = "posting.new"
	EventCycleSummary = "cycle.summary"
	EventCycleError   = "cycle.error"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the JSON value published for every notification.
type Event struct {
	Type    string           `json:"type"`
	At      time.Time        `json:"at"`
	Posting *domain.Posting  `json:"posting,omitempty"`
	Stats   *domain.RunStats `json:"stats,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// KafkaNotifier publishes notifications as events for downstream consumers.
type KafkaNotifier struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaNotifier creates a publisher for the given broker and topic.
func NewKafkaNotifier(broker, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: false,
		},
		now: time.Now,
	}
}

// NewKafkaNotifierWithWriter builds a notifier using a custom writer (tests).
func NewKafkaNotifierWithWriter(writer messageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, now: time.Now}
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}

func (k *KafkaNotifier) SendPosting(ctx context.Context, p domain.Posting) error {
	return k.publish(ctx, p.ID, Event{Type: EventPostingNew, Posting: &p})
}

func (k *KafkaNotifier) SendSummary(ctx context.Context, stats domain.RunStats) error {
	return k.publish(ctx, stats.CycleID, Event{Type: EventCycleSummary, Stats: &stats})
}

func (k *KafkaNotifier) SendError(ctx context.Context, err error) error {
	ev := Event{Type: EventCycleError}
	if err != nil {
		ev.Error = err.Error()
	}
	return k.publish(ctx, "", ev)
}

func (k *KafkaNotifier) publish(ctx context.Context, key string, ev Event) error {
	ev.At = k.now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  ev.At,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w: %v", ev.Type, domain.ErrNotificationDelivery, err)
	}
	return nil
}
