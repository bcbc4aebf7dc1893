package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/internal/users"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	recentWindow  = 30 * 24 * time.Hour
	activityLimit  = 5
)

// Metrics are the headline counters on the dashboard.
type Metrics struct {
	ActiveListings     int64 `json:"activeListings"`
	RecentTransactions int   `json:"recentTransactions"`
	TrustScore         int   `json:"trustScore"`
	EcoPoints          int   `json:"ecoPoints"`
}

// Stats summarise the viewer's transactions. TotalValue excludes cancelled
// and refunded orders.
type Stats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Completed  int             `json:"completed"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// Summary is the dashboard payload.
type Summary struct {
	User        *users.UserDTO               `json:"user"`
	Metrics     Metrics                      `json:"metrics"`
	Stats       Stats                        `json:"stats"`
	TabCounts   map[enums.TransactionTab]int `json:"tabCounts"`
	UnreadCount int                          `json:"unreadCount"`
	Activity    []notifications.Notification `json:"activity"`
}

type transactionLister interface {
	List(ctx context.Context, viewer uuid.UUID, filters transactions.Filters) (*transactions.ListResult, error)
}

type listingCounter interface {
	CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type notificationLister interface {
	List(ctx context.Context, userID uuid.UUID, params notifications.ListParams) (*notifications.ListResult, error)
}

// Service builds dashboards.
type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
}

type service struct {
	users         userFinder
	transactions  transactionLister
	listings      listingCounter
	notifications notificationLister
	now           func() time.Time
}

// NewService wires dashboard dependencies.
func NewService(users userFinder, txns transactionLister, listings listingCounter, notes notificationLister) (Service, error) {
	switch {
	case users == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	case txns == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transactions service required")
	case listings == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	case notes == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	return &service{users: users, transactions: txns, listings: listings, notifications: notes, now: time.Now}, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	txns, err := s.transactions.List(ctx, userID, transactions.Filters{})
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.CountActiveBySeller(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count listings")
	}
	notes, err := s.notifications.List(ctx, userID, notifications.ListParams{})
	if err != nil {
		return nil, err
	}

	activity := notes.Items
	if len(activity) > activityLimit {
		activity = activity[:activityLimit]
	}

	return &Summary{
		User: users.FromModel(user),
		Metrics: Metrics{
			ActiveListings:     listings,
			RecentTransactions: countSince(txns.Items, s.now().Add(-recentWindow)),
			TrustScore:         user.TrustScore,
			EcoPoints:          user.EcoPoints,
		},
		Stats:       statsFor(txns.Items),
		TabCounts:   txns.Counts,
		UnreadCount: notes.UnreadCount,
		Activity:    activity,
	}, nil
}

func statsFor(items []transactions.Transaction) Stats {
	stats := Stats{Total: len(items), TotalValue: decimal.Zero}
	for _, t := range items {
		switch {
		case t.Status.IsActive():
			stats.Active++
		case t.Status == enums.TransactionStatusCompleted:
			stats.Completed++
		}
		if t.Status != enums.TransactionStatusCancelled && t.Status != enums.TransactionStatusRefunded {
			stats.TotalValue = stats.TotalValue.Add(t.Amount)
		}
	}
	return stats
}

func countSince(items []transactions.Transaction, cutoff time.Time) int {
	n := 0
	for _, t := range items {
		if !t.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n
}
