package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-order-service/internal/api/dto"
	"route-order-service/internal/domain"
	"route-order-service/internal/platform/obs"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the subset of *kafka.Writer the publisher needs.
// Tests replace it with an in-memory writer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPlanPublisher emits every finished plan as a JSON message.
// Messages are keyed by plan id so all versions of a plan share a partition.
// Plans without history have no id and fall back to the request id.
type KafkaPlanPublisher struct {
	writer KafkaWriter
	topic  string
}

func NewKafkaPlanPublisher(brokers []string, topic string) (*KafkaPlanPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is empty")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return NewKafkaPlanPublisherWithWriter(w, topic), nil
}

func NewKafkaPlanPublisherWithWriter(w KafkaWriter, topic string) *KafkaPlanPublisher {
	return &KafkaPlanPublisher{writer: w, topic: topic}
}

func (p *KafkaPlanPublisher) Publish(ctx context.Context, plan *domain.TourPlan, report string) (err error) {
	defer obs.Time(ctx, "kafka.PublishPlan")(&err)

	if plan == nil {
		return errors.New("kafka publish: plan is nil")
	}

	payload, err := json.Marshal(dto.FromPlan(plan))
	if err != nil {
		return fmt.Errorf("kafka publish: marshal plan: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(messageKey(ctx, plan)),
		Value: payload,
		Time:  plan.CreatedAt,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if id := obs.RequestID(ctx); id != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "request-id", Value: []byte(id)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish: write to topic %q: %w", p.topic, err)
	}

	return nil
}

func messageKey(ctx context.Context, plan *domain.TourPlan) string {
	if plan.PlanID != 0 {
		return strconv.FormatInt(plan.PlanID, 10)
	}
	if id := obs.RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func (p *KafkaPlanPublisher) Close() error {
	return p.writer.Close()
}
