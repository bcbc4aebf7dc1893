package notifications

import (
	"cmp"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

const (
	DefaultCapacity  = 50
	DefaultActionURL = "/user-dashboard"
)

// Notification is the in-app alert as it is shown to a user.
type Notification struct {
	ID        string                     `json:"id"`
	Type      enums.NotificationType     `json:"type"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Timestamp time.Time                  `json:"timestamp"`
	Read      bool                       `json:"read"`
	Priority  enums.NotificationPriority `json:"priority"`
	ActionURL string                     `json:"actionUrl"`

	seq int64
}

// Seq returns the numeric form of the id, which orders notifications by insertion.
func (n Notification) Seq() int64 {
	return n.seq
}

// Input is the caller-supplied part of a notification. Empty fields take defaults.
type Input struct {
	Type      enums.NotificationType
	Title     string
	Message   string
	Priority  enums.NotificationPriority
	ActionURL string
}

// IDSource hands out time-derived ids that strictly increase even when the
// clock stalls or steps backwards.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns the next id together with the timestamp it was derived from.
func (s *IDSource) Next() (int64, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UTC()
	candidate := ts.UnixMilli()
	if candidate <= s.last {
		candidate = s.last + 1
	}
	s.last = candidate
	return candidate, ts
}

// Observe raises the floor so ids loaded from storage are never reissued.
func (s *IDSource) Observe(seq int64) {
	s.mu.Lock()
	if seq > s.last {
		s.last = seq
	}
	s.mu.Unlock()
}

// Build fills the defaults for in and assigns a fresh id and timestamp.
func Build(ids *IDSource, in Input, defaultActionURL string) Notification {
	seq, ts := ids.Next()
	n := Notification{
		ID:        strconv.FormatInt(seq, 10),
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Timestamp: ts,
		Priority:  in.Priority,
		ActionURL: in.ActionURL,
		seq:       seq,
	}
	if n.Type == "" {
		n.Type = enums.NotificationTypeSystem
	}
	if n.Priority == "" {
		n.Priority = enums.NotificationPriorityNormal
	}
	if n.ActionURL == "" {
		n.ActionURL = defaultActionURL
	}
	return n
}

// Store is the bounded, newest-first notification list of one user. It is not
// safe for concurrent use; Hub serialises access per user.
type Store struct {
	capacity         int
	defaultActionURL string
	ids              *IDSource
	items            []Notification
}

type StoreOptions struct {
	Capacity         int
	DefaultActionURL string
	IDs              *IDSource
}

func NewStore(opts StoreOptions) *Store {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.DefaultActionURL == "" {
		opts.DefaultActionURL = DefaultActionURL
	}
	if opts.IDs == nil {
		opts.IDs = NewIDSource(nil)
	}
	return &Store{
		capacity:         opts.Capacity,
		defaultActionURL: opts.DefaultActionURL,
		ids:              opts.IDs,
	}
}

// Add builds a notification from in and prepends it. Entries pushed past the
// capacity are returned, oldest insertion first.
func (s *Store) Add(in Input) (Notification, []Notification) {
	n := Build(s.ids, in, s.defaultActionURL)
	return n, s.Insert(n)
}

// Insert prepends an already built notification and evicts by insertion order.
// An id the store already holds is ignored.
func (s *Store) Insert(n Notification) []Notification {
	if _, held := s.Get(n.ID); held {
		return nil
	}
	s.items = append([]Notification{n}, s.items...)
	if len(s.items) <= s.capacity {
		return nil
	}
	overflow := s.items[s.capacity:]
	evicted := make([]Notification, 0, len(overflow))
	for i := len(overflow) - 1; i >= 0; i-- {
		evicted = append(evicted, overflow[i])
	}
	s.items = s.items[:s.capacity:s.capacity]
	return evicted
}

// Load replaces the contents with persisted notifications, newest first.
func (s *Store) Load(items []Notification) {
	loaded := make([]Notification, len(items))
	copy(loaded, items)
	slices.SortFunc(loaded, func(a, b Notification) int {
		return cmp.Compare(b.seq, a.seq)
	})
	if len(loaded) > s.capacity {
		loaded = loaded[:s.capacity]
	}
	for _, n := range loaded {
		s.ids.Observe(n.seq)
	}
	s.items = loaded
}

// MarkAsRead flips one notification to read. found is false for unknown ids;
// changed is false when it was already read.
func (s *Store) MarkAsRead(id string) (found, changed bool) {
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Read {
			return true, false
		}
		s.items[i].Read = true
		return true, true
	}
	return false, false
}

// MarkAllAsRead returns how many notifications changed.
func (s *Store) MarkAllAsRead() int {
	changed := 0
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			changed++
		}
	}
	return changed
}

func (s *Store) Remove(id string) (Notification, bool) {
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return n, true
		}
	}
	return Notification{}, false
}

func (s *Store) Get(id string) (Notification, bool) {
	for _, n := range s.items {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// List returns a copy of every notification, newest first.
func (s *Store) List() []Notification {
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ListUnread() []Notification {
	out := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) ListByType(t enums.NotificationType) []Notification {
	out := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount is recomputed from the held entries, so eviction of an unread
// entry is reflected without separate bookkeeping.
func (s *Store) UnreadCount() int {
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) Len() int {
	return len(s.items)
}
