package notifications

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
	"gorm.io/gorm"
)

const subscriberBuffer = 16

// Service defines the notification operations exposed to the API and to
// other domain services.
type Service interface {
	Prepare(userID uuid.UUID, in Input) (Notification, error)
	Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, n Notification) error
	Publish(ctx context.Context, userID uuid.UUID, n Notification)
	Notify(ctx context.Context, userID uuid.UUID, in Input) (Notification, error)
	List(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, id string) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int, error)
	Remove(ctx context.Context, userID uuid.UUID, id string) error
	Subscribe(userID uuid.UUID) (<-chan Notification, func())
}

// ListParams narrows a notification listing.
type ListParams struct {
	Type       enums.NotificationType
	UnreadOnly bool
}

// ListResult wraps returned notifications and the user's unread total.
type ListResult struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unreadCount"`
}

// HubParams configure a Hub.
type HubParams struct {
	Repository       Repository
	Logger           *logger.Logger
	Metrics          *metrics.NotificationMetrics
	Capacity         int
	DefaultActionURL string
	Clock            func() time.Time
}

// Hub owns one Store per user. Stores are hydrated from the repository on
// first use and every mutation is written to the repository before it is
// applied in memory.
type Hub struct {
	repo             Repository
	logg             *logger.Logger
	metrics          *metrics.NotificationMetrics
	ids              *IDSource
	capacity         int
	defaultActionURL string

	mu    sync.Mutex
	users map[uuid.UUID]*userState
}

type userState struct {
	mu      sync.Mutex
	store   *Store
	loaded  bool
	subs    map[uint64]chan Notification
	nextSub uint64
}

// NewHub wires notification dependencies.
func NewHub(params HubParams) (*Hub, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	capacity := params.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	actionURL := params.DefaultActionURL
	if actionURL == "" {
		actionURL = DefaultActionURL
	}
	return &Hub{
		repo:             params.Repository,
		logg:             params.Logger,
		metrics:          params.Metrics,
		ids:              NewIDSource(params.Clock),
		capacity:         capacity,
		defaultActionURL: actionURL,
		users:            map[uuid.UUID]*userState{},
	}, nil
}

// Prepare validates in and assigns the id, timestamp and defaults without
// storing anything.
func (h *Hub) Prepare(userID uuid.UUID, in Input) (Notification, error) {
	if userID == uuid.Nil {
		return Notification{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" {
		return Notification{}, pkgerrors.New(pkgerrors.CodeValidation, "notification title and message required")
	}
	if in.Type != "" && !in.Type.IsValid() {
		return Notification{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification type %q", in.Type)
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return Notification{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification priority %q", in.Priority)
	}
	return Build(h.ids, in, h.defaultActionURL), nil
}

// Record persists a prepared notification inside the caller's transaction.
func (h *Hub) Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, n Notification) error {
	row := toModel(userID, n)
	if err := h.repo.WithTx(tx).Create(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist notification")
	}
	return nil
}

// Publish applies an already recorded notification to the user's store and
// pushes it to live subscribers.
func (h *Hub) Publish(ctx context.Context, userID uuid.UUID, n Notification) {
	state := h.state(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if !state.loaded {
		// hydration reads the recorded row back, so no insert is needed
		if err := h.hydrate(ctx, userID, state); err != nil {
			h.logg.Error(ctx, "notification store hydration failed", err)
		}
	} else if _, held := state.store.Get(n.ID); held {
		// a concurrent hydration between Record and Publish already loaded
		// the row, and any stream opened since then saw it in its snapshot
		h.observeAdded(n.Type)
		return
	} else if evicted := state.store.Insert(n); len(evicted) > 0 {
		ids := make([]string, 0, len(evicted))
		for _, e := range evicted {
			ids = append(ids, e.ID)
		}
		if err := h.repo.Delete(ctx, userID, ids...); err != nil {
			h.logg.Warn(h.logg.WithField(ctx, "evicted", len(ids)), "failed to delete evicted notifications")
		}
	}
	h.observeAdded(n.Type)

	for _, ch := range state.subs {
		select {
		case ch <- n:
		default:
			h.logg.Warn(h.logg.WithField(ctx, "notification_id", n.ID), "notification subscriber is full; dropping event")
		}
	}
}

// Notify prepares, records and publishes in one step.
func (h *Hub) Notify(ctx context.Context, userID uuid.UUID, in Input) (Notification, error) {
	n, err := h.Prepare(userID, in)
	if err != nil {
		return Notification{}, err
	}
	if err := h.Record(ctx, nil, userID, n); err != nil {
		return Notification{}, err
	}
	h.Publish(ctx, userID, n)
	return n, nil
}

func (h *Hub) List(ctx context.Context, userID uuid.UUID, params ListParams) (*ListResult, error) {
	if params.Type != "" && !params.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification type %q", params.Type)
	}
	var result *ListResult
	err := h.withStore(ctx, userID, func(store *Store) error {
		var items []Notification
		switch {
		case params.Type != "":
			items = store.ListByType(params.Type)
		case params.UnreadOnly:
			items = store.ListUnread()
		default:
			items = store.List()
		}
		if params.Type != "" && params.UnreadOnly {
			filtered := items[:0]
			for _, n := range items {
				if !n.Read {
					filtered = append(filtered, n)
				}
			}
			items = filtered
		}
		result = &ListResult{Items: items, UnreadCount: store.UnreadCount()}
		return nil
	})
	return result, err
}

func (h *Hub) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	err := h.withStore(ctx, userID, func(store *Store) error {
		count = store.UnreadCount()
		return nil
	})
	return count, err
}

// MarkAsRead is idempotent: marking an already read notification succeeds
// without touching storage.
func (h *Hub) MarkAsRead(ctx context.Context, userID uuid.UUID, id string) error {
	return h.withStore(ctx, userID, func(store *Store) error {
		n, ok := store.Get(id)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		if n.Read {
			return nil
		}
		if err := h.repo.MarkRead(ctx, userID, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
		}
		store.MarkAsRead(id)
		return nil
	})
}

func (h *Hub) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int, error) {
	changed := 0
	err := h.withStore(ctx, userID, func(store *Store) error {
		if _, err := h.repo.MarkAllRead(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
		}
		changed = store.MarkAllAsRead()
		return nil
	})
	return changed, err
}

func (h *Hub) Remove(ctx context.Context, userID uuid.UUID, id string) error {
	return h.withStore(ctx, userID, func(store *Store) error {
		if _, ok := store.Get(id); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		if err := h.repo.Delete(ctx, userID, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification")
		}
		store.Remove(id)
		return nil
	})
}

// Subscribe registers a live listener for userID. The returned func
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Notification, func()) {
	state := h.state(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	id := state.nextSub
	state.nextSub++
	ch := make(chan Notification, subscriberBuffer)
	state.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			state.mu.Lock()
			delete(state.subs, id)
			close(ch)
			state.mu.Unlock()
		})
	}
}

func (h *Hub) state(userID uuid.UUID) *userState {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.users[userID]
	if !ok {
		state = &userState{
			store: NewStore(StoreOptions{Capacity: h.capacity, DefaultActionURL: h.defaultActionURL, IDs: h.ids}),
			subs:  map[uint64]chan Notification{},
		}
		h.users[userID] = state
	}
	return state
}

func (h *Hub) withStore(ctx context.Context, userID uuid.UUID, fn func(store *Store) error) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	state := h.state(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.loaded {
		if err := h.hydrate(ctx, userID, state); err != nil {
			return err
		}
	}
	return fn(state.store)
}

func (h *Hub) hydrate(ctx context.Context, userID uuid.UUID, state *userState) error {
	rows, err := h.repo.ListRecent(ctx, userID, h.capacity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notifications")
	}
	items := make([]Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromModel(row))
	}
	state.store.Load(items)
	state.loaded = true
	return nil
}

func (h *Hub) observeAdded(t enums.NotificationType) {
	if h.metrics == nil {
		return
	}
	h.metrics.Added(string(t))
}
