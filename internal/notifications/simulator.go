package notifications

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

const (
	DefaultSimulatorInterval    = 30 * time.Second
	DefaultSimulatorProbability = 0.1
)

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, in Input) (Notification, error)
}

// Simulator emits demo marketplace activity on a fixed cadence. Each tick
// fires with the configured probability.
type Simulator struct {
	notifier    notifier
	logg        *logger.Logger
	interval    time.Duration
	probability float64

	mu   sync.Mutex
	rand *rand.Rand
	tick func(d time.Duration) (<-chan time.Time, func())
}

type SimulatorParams struct {
	Notifier    notifier
	Logger      *logger.Logger
	Interval    time.Duration
	Probability float64
	Rand        *rand.Rand
}

func NewSimulator(params SimulatorParams) *Simulator {
	interval := params.Interval
	if interval <= 0 {
		interval = DefaultSimulatorInterval
	}
	probability := params.Probability
	if probability < 0 || probability > 1 {
		probability = DefaultSimulatorProbability
	}
	src := params.Rand
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		notifier:    params.Notifier,
		logg:        params.Logger,
		interval:    interval,
		probability: probability,
		rand:        src,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			ticker := time.NewTicker(d)
			return ticker.C, ticker.Stop
		},
	}
}

// Run emits activity for userID until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, userID uuid.UUID) {
	ticks, stop := s.tick(s.interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.Step(ctx, userID)
		}
	}
}

// Step performs a single tick and reports whether a notification was emitted.
func (s *Simulator) Step(ctx context.Context, userID uuid.UUID) bool {
	in, fire := s.roll()
	if !fire {
		return false
	}
	if _, err := s.notifier.Notify(ctx, userID, in); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "simulated notification failed", err)
		}
		return false
	}
	return true
}

func (s *Simulator) roll() (Input, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rand.Float64() >= s.probability {
		return Input{}, false
	}
	t := enums.NotificationTypeEscrow
	if s.rand.Float64() < 0.5 {
		t = enums.NotificationTypeTransaction
	}
	return Input{
		Type:     t,
		Title:    "New Activity",
		Message:  "You have new marketplace activity",
		Priority: enums.NotificationPriorityNormal,
	}, true
}
