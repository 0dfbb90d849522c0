package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	kgo "github.com/segmentio/kafka-go"

	"internwatch/internal/domain"
	"internwatch/internal/mocks"
	"internwatch/internal/notify"
)

func TestKafkaNotifierSendPosting(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	k := notify.NewKafkaNotifierWithWriter(writer)

	p := domain.Posting{ID: "abc123", Source: "AICTE", Title: "ML Intern", Organization: "Acme"}

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if len(msgs) != 1 {
				t.Fatalf("expected 1 message, got %d", len(msgs))
			}
			if string(msgs[0].Key) != p.ID {
				t.Fatalf("unexpected message key: %s", string(msgs[0].Key))
			}
			var ev notify.Event
			if err := json.Unmarshal(msgs[0].Value, &ev); err != nil {
				t.Fatalf("failed to decode message: %v", err)
			}
			if ev.Type != notify.EventPostingNew || ev.Posting == nil || ev.Posting.Title != p.Title {
				t.Fatalf("unexpected event: %+v", ev)
			}
			return nil
		})

	if err := k.SendPosting(context.Background(), p); err != nil {
		t.Fatalf("SendPosting returned error: %v", err)
	}
}

func TestKafkaNotifierSummaryKeyedByCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	k := notify.NewKafkaNotifierWithWriter(writer)

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			var ev notify.Event
			_ = json.Unmarshal(msgs[0].Value, &ev)
			if string(msgs[0].Key) != "cycle-1" || ev.Type != notify.EventCycleSummary || ev.Stats.Notified != 2 {
				t.Fatalf("unexpected summary event: key=%s %+v", msgs[0].Key, ev)
			}
			return nil
		})

	if err := k.SendSummary(context.Background(), domain.RunStats{CycleID: "cycle-1", Notified: 2}); err != nil {
		t.Fatal(err)
	}
}

func TestKafkaNotifierWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	k := notify.NewKafkaNotifierWithWriter(writer)

	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))
	err := k.SendError(context.Background(), errors.New("cycle failed"))
	if !errors.Is(err, domain.ErrNotificationDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	a := mocks.NewMockNotifier(ctrl)
	b := mocks.NewMockNotifier(ctrl)
	p := domain.Posting{ID: "x"}

	failure := errors.New("a down")
	a.EXPECT().SendPosting(gomock.Any(), p).Return(failure)
	b.EXPECT().SendPosting(gomock.Any(), p).Return(nil)
	a.EXPECT().SendSummary(gomock.Any(), gomock.Any()).Return(nil)
	b.EXPECT().SendSummary(gomock.Any(), gomock.Any()).Return(nil)

	m := notify.Multi{a, b}
	err := m.SendPosting(context.Background(), p)
	if !errors.Is(err, failure) {
		t.Fatalf("SendPosting err = %v", err)
	}
	var partial *notify.PartialDeliveryError
	if !errors.As(err, &partial) {
		t.Fatalf("one transport delivered, want partial delivery, got %T", err)
	}
	if err := m.SendSummary(context.Background(), domain.RunStats{}); err != nil {
		t.Fatalf("SendSummary err = %v", err)
	}
}

func TestMultiFailsWhenNoTransportDelivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	a := mocks.NewMockNotifier(ctrl)
	b := mocks.NewMockNotifier(ctrl)
	p := domain.Posting{ID: "y"}

	a.EXPECT().SendPosting(gomock.Any(), p).Return(errors.New("telegram down"))
	b.EXPECT().SendPosting(gomock.Any(), p).Return(errors.New("kafka down"))

	err := notify.Multi{a, b}.SendPosting(context.Background(), p)
	var partial *notify.PartialDeliveryError
	if err == nil || errors.As(err, &partial) {
		t.Fatalf("err = %v, want a plain joined error", err)
	}
}
