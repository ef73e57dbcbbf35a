package publish

import (
	"context"
	"encoding/json"
	"errors"
	"route-order-service/internal/api/dto"
	"route-order-service/internal/domain"
	"route-order-service/internal/platform/obs"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// mockWriter collects messages instead of sending them to a broker.
type mockWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func samplePlan() *domain.TourPlan {
	return &domain.TourPlan{
		PlanID:    42,
		CreatedAt: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		Locations: domain.NewLocations([]string{"Home", "Shop"}),
		Distance: domain.RouteSummary{
			OptimizedFor:  domain.MetricDistance,
			Order:         domain.Route{0, 1, 0},
			Stops:         []string{"Home", "Shop", "Home"},
			TotalDistance: 20,
			TotalDuration: 3700,
		},
	}
}

func TestKafkaPublishPlan(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPlanPublisherWithWriter(w, "route-plans")

	ctx := obs.WithRequestID(context.Background(), "req-1")
	if err := p.Publish(ctx, samplePlan(), "report"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(w.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.messages))
	}
	msg := w.messages[0]
	if string(msg.Key) != "42" {
		t.Errorf("key = %q, want 42", msg.Key)
	}

	var got dto.PlanResponse
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.DistanceRoute.TotalDurationText != "1:01:40" {
		t.Errorf("duration text = %q, want 1:01:40", got.DistanceRoute.TotalDurationText)
	}

	foundReq := false
	for _, h := range msg.Headers {
		if h.Key == "request-id" && string(h.Value) == "req-1" {
			foundReq = true
		}
	}
	if !foundReq {
		t.Errorf("request-id header missing: %v", msg.Headers)
	}
}

func TestKafkaPublishUnsavedPlanKeys(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPlanPublisherWithWriter(w, "route-plans")

	plan := samplePlan()
	plan.PlanID = 0

	ctx := obs.WithRequestID(context.Background(), "req-7")
	if err := p.Publish(ctx, plan, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 2 {
		if err := p.Publish(context.Background(), plan, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(w.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(w.messages))
	}
	if got := string(w.messages[0].Key); got != "req-7" {
		t.Errorf("key = %q, want request id req-7", got)
	}
	a, b := string(w.messages[1].Key), string(w.messages[2].Key)
	if a == "" || a == "0" || a == b {
		t.Errorf("keys without request id = %q, %q; want distinct generated ids", a, b)
	}
}

func TestKafkaPublishWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := NewKafkaPlanPublisherWithWriter(w, "route-plans")

	if err := p.Publish(context.Background(), samplePlan(), ""); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNewKafkaPlanPublisherValidation(t *testing.T) {
	if _, err := NewKafkaPlanPublisher(nil, "t"); err == nil {
		t.Error("expected error for missing brokers")
	}
	if _, err := NewKafkaPlanPublisher([]string{"localhost:9092"}, ""); err == nil {
		t.Error("expected error for empty topic")
	}
}
