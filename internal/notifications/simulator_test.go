package notifications

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

type recordingNotifier struct {
	inputs []Input
}

func (r *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, in Input) (Notification, error) {
	r.inputs = append(r.inputs, in)
	return Notification{Type: in.Type}, nil
}

func TestSimulatorProbabilityBounds(t *testing.T) {
	always := &recordingNotifier{}
	sim := NewSimulator(SimulatorParams{Notifier: always, Probability: 1, Rand: rand.New(rand.NewSource(1))})
	for i := 0; i < 20; i++ {
		if !sim.Step(context.Background(), uuid.New()) {
			t.Fatal("probability 1 must always fire")
		}
	}
	for _, in := range always.inputs {
		if in.Type != enums.NotificationTypeTransaction && in.Type != enums.NotificationTypeEscrow {
			t.Fatalf("unexpected simulated type %s", in.Type)
		}
		if in.Title != "New Activity" {
			t.Fatalf("unexpected title %q", in.Title)
		}
	}

	never := &recordingNotifier{}
	sim = NewSimulator(SimulatorParams{Notifier: never, Probability: 0, Rand: rand.New(rand.NewSource(1))})
	for i := 0; i < 20; i++ {
		sim.Step(context.Background(), uuid.New())
	}
	if len(never.inputs) != 0 {
		t.Fatalf("probability 0 must never fire, got %d", len(never.inputs))
	}
}

func TestSimulatorRunStopsOnCancel(t *testing.T) {
	notifier := &recordingNotifier{}
	sim := NewSimulator(SimulatorParams{Notifier: notifier, Probability: 1, Rand: rand.New(rand.NewSource(7))})
	ticks := make(chan time.Time)
	stopped := make(chan struct{})
	sim.tick = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { close(stopped) }
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx, uuid.New())
		close(done)
	}()

	ticks <- time.Now()
	ticks <- time.Now()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop after cancel")
	}
	select {
	case <-stopped:
	default:
		t.Fatal("expected ticker stop on exit")
	}
	if len(notifier.inputs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.inputs))
	}
}
