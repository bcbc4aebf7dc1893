package seed

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/security"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Params configure a seed run.
type Params struct {
	DB       txRunner
	Password config.PasswordConfig
	Logger   *logger.Logger
	Clock    func() time.Time
}

// Result counts the rows written by a seed run. Skipped is set when the demo
// buyer already exists and nothing was written.
type Result struct {
	Users         int
	Products      int
	Transactions  int
	Disputes      int
	Notifications int
	Skipped       bool
}

// Run loads the demo marketplace in one transaction.
func Run(ctx context.Context, params Params) (*Result, error) {
	if params.DB == nil {
		return nil, errors.New("db runner required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock().UTC()

	result := &Result{}
	err := params.DB.WithTx(ctx, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("email = ?", DemoAccounts[0].Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			result.Skipped = true
			return nil
		}

		people, err := buildUsers(params.Password)
		if err != nil {
			return err
		}
		rows := make([]models.User, 0, len(DemoAccounts)+len(counterparties))
		for _, acct := range DemoAccounts {
			rows = append(rows, *people[acct.Email])
		}
		for _, cp := range counterparties {
			rows = append(rows, *people[cp.key])
		}
		if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
			return err
		}
		result.Users = len(rows)

		products := buildProducts(people, now)
		if err := tx.WithContext(ctx).Create(&products).Error; err != nil {
			return err
		}
		result.Products = len(products)

		viewer := people[DemoAccounts[0].Email]
		txns := buildTransactions(viewer, people)
		if err := tx.WithContext(ctx).Create(&txns).Error; err != nil {
			return err
		}
		result.Transactions = len(txns)
		if err := tx.WithContext(ctx).Create(&models.TransactionSequence{Year: 2024, LastValue: int64(len(txns))}).Error; err != nil {
			return err
		}

		dispute := models.Dispute{
			ID:              uuid.New(),
			TransactionID:   "SW-2024-003",
			OpenedBy:        viewer.ID,
			OpenedByRole:    enums.TransactionRoleBuyer,
			Reason:          enums.DisputeReasonItemNotAsDescribed,
			Description:     "Headphones arrived with a cracked headband and the listing said good condition.",
			RequestedAction: enums.RequestedActionRefund,
			Status:          "open",
		}
		if err := tx.WithContext(ctx).Create(&dispute).Error; err != nil {
			return err
		}
		result.Disputes = 1

		notes := buildNotifications(viewer.ID, clock)
		if err := tx.WithContext(ctx).Create(&notes).Error; err != nil {
			return err
		}
		result.Notifications = len(notes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := params.Logger.WithFields(ctx, map[string]any{
		"users":         result.Users,
		"products":      result.Products,
		"transactions":  result.Transactions,
		"notifications": result.Notifications,
		"skipped":       result.Skipped,
	})
	params.Logger.Info(logCtx, "seed.complete")
	return result, nil
}

// buildUsers returns the demo accounts keyed by email and counterparties keyed
// by their short name.
func buildUsers(cfg config.PasswordConfig) (map[string]*models.User, error) {
	people := make(map[string]*models.User, len(DemoAccounts)+len(counterparties))
	var errs error
	for _, acct := range DemoAccounts {
		hash, err := security.HashPassword(acct.Password, cfg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		people[acct.Email] = &models.User{
			ID:           uuid.New(),
			Email:        acct.Email,
			PasswordHash: hash,
			FullName:     acct.FullName,
			UserType:     acct.UserType,
			TrustScore:   acct.Trust,
			IsVerified:   true,
			Rating:       mustDecimal("4.7"),
			ReviewCount:  12,
			EcoPoints:    acct.Eco,
		}
	}
	for _, cp := range counterparties {
		hash, err := security.HashPassword(uuid.NewString(), cfg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		people[cp.key] = &models.User{
			ID:           uuid.New(),
			Email:        cp.key + "@people.swapsafe.com",
			PasswordHash: hash,
			FullName:     cp.name,
			UserType:     enums.UserTypeSeller,
			TrustScore:   cp.trust,
			IsVerified:   cp.verified,
			Rating:       mustDecimal(cp.rating),
			ReviewCount:  cp.reviewCount,
		}
	}
	if errs != nil {
		return nil, errs
	}
	people["seller"] = people["seller@swapsafe.com"]
	return people, nil
}

func buildProducts(people map[string]*models.User, now time.Time) []models.Product {
	out := make([]models.Product, 0, len(listings))
	for _, l := range listings {
		p := models.Product{
			ID:            uuid.New(),
			SellerID:      people[l.seller].ID,
			Title:         l.title,
			Category:      l.category,
			Condition:     l.condition,
			Price:         mustDecimal(strconv.FormatInt(l.price, 10)),
			IsEcoFriendly: l.ecoFriendly,
			EcoScore:      l.ecoScore,
			Latitude:      l.lat,
			Longitude:     l.lng,
			Location:      l.location,
			Views:         l.views,
			Favorites:     l.favorites,
			RiskLevel:     l.risk,
			ListedAt:      now.Add(-l.age),
		}
		if l.originalPrice > 0 {
			original := mustDecimal(strconv.FormatInt(l.originalPrice, 10))
			p.OriginalPrice = &original
		}
		out = append(out, p)
	}
	return out
}

func buildTransactions(viewer *models.User, people map[string]*models.User) []models.Transaction {
	out := make([]models.Transaction, 0, len(orders))
	for _, o := range orders {
		other := people[o.counterparty]
		row := models.Transaction{
			ID:            o.id,
			ProductName:   o.product,
			BuyerID:       other.ID,
			SellerID:      viewer.ID,
			Amount:        mustDecimal(o.amount),
			Fee:           mustDecimal(o.fee),
			Status:        o.status,
			EscrowStatus:  o.escrow,
			RiskLevel:     o.risk,
			PaymentMethod: o.paymentMethod,
			CreatedAt:     o.createdAt,
			UpdatedAt:     o.createdAt.Add(36 * time.Hour),
		}
		if o.buyerIsViewer {
			row.BuyerID, row.SellerID = viewer.ID, other.ID
		}
		if o.branchedFrom != "" {
			from := o.branchedFrom
			row.BranchedFrom = &from
		}
		if o.trackingNumber != "" {
			tracking := o.trackingNumber
			row.TrackingNumber = &tracking
		}
		if o.notes != "" {
			notes := o.notes
			row.Notes = &notes
		}
		out = append(out, row)
	}
	return out
}

func buildNotifications(userID uuid.UUID, clock func() time.Time) []models.Notification {
	ids := notifications.NewIDSource(clock)
	out := make([]models.Notification, 0, len(alerts))
	for _, a := range alerts {
		seq, ts := ids.Next()
		out = append(out, models.Notification{
			ID:        strconv.FormatInt(seq, 10),
			Seq:       seq,
			UserID:    userID,
			Type:      a.kind,
			Title:     a.title,
			Message:   a.message,
			Priority:  a.priority,
			ActionURL: a.actionURL,
			Read:      a.read,
			CreatedAt: ts.UTC(),
		})
	}
	return out
}
