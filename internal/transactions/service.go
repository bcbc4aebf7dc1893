package transactions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/listing"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	product "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/internal/risk"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Prepare(userID uuid.UUID, in notifications.Input) (notifications.Notification, error)
	Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, n notifications.Notification) error
	Publish(ctx context.Context, userID uuid.UUID, n notifications.Notification)
}

// Service exposes transaction reads, lifecycle actions and purchases.
type Service interface {
	List(ctx context.Context, viewer uuid.UUID, filters Filters) (*ListResult, error)
	Get(ctx context.Context, viewer uuid.UUID, id string) (*Transaction, error)
	PerformAction(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction) (*Transaction, error)
	Dispatch(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction, within WithinFunc) (*Transaction, error)
	Purchase(ctx context.Context, buyer uuid.UUID, input PurchaseInput) (*Transaction, error)
}

// WithinFunc runs inside the database transaction that applies an action,
// after the status change is written and before the notification is recorded.
type WithinFunc func(tx *gorm.DB, row models.Transaction, role enums.TransactionRole) error

// ListResult is a filtered transaction list plus per-tab counts over the
// viewer's unfiltered transactions.
type ListResult struct {
	Items  []Transaction                `json:"items"`
	Counts map[enums.TransactionTab]int `json:"counts"`
	Total  int                          `json:"total"`
}

// PurchaseInput starts an escrow-protected order.
type PurchaseInput struct {
	ProductID     uuid.UUID
	PaymentMethod string
	Notes         *string
}

// ServiceParams configure the transaction service.
type ServiceParams struct {
	DB         txRunner
	Repository Repository
	Products   product.Repository
	Notifier   notifier
	Fees       FeePolicy
	Scorer     risk.Scorer
	Machine    *Machine
	Metrics    *metrics.TransactionMetrics
	Logger     *logger.Logger
	Clock      func() time.Time
}

type service struct {
	db       txRunner
	repo     Repository
	products product.Repository
	notifier notifier
	fees     FeePolicy
	scorer   risk.Scorer
	machine  *Machine
	metrics  *metrics.TransactionMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires transaction dependencies.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.DB == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	case params.Repository == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transactions repository required")
	case params.Products == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	case params.Notifier == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	case params.Fees == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "fee policy required")
	case params.Scorer == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "risk scorer required")
	case params.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	machine := params.Machine
	if machine == nil {
		machine = NewMachine()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		db:       params.DB,
		repo:     params.Repository,
		products: params.Products,
		notifier: params.Notifier,
		fees:     params.Fees,
		scorer:   params.Scorer,
		machine:  machine,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      clock,
	}, nil
}

func (s *service) List(ctx context.Context, viewer uuid.UUID, filters Filters) (*ListResult, error) {
	if viewer == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListForUser(ctx, viewer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	views := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		role, ok := RoleOf(row, viewer)
		if !ok {
			continue
		}
		views = append(views, View(row, role, s.machine))
	}
	items, err := ApplyFilters(views, filters)
	if err != nil {
		return nil, listing.SortValidationError(err)
	}
	return &ListResult{Items: items, Counts: TabCounts(views), Total: len(views)}, nil
}

func (s *service) Get(ctx context.Context, viewer uuid.UUID, id string) (*Transaction, error) {
	row, role, err := s.load(ctx, s.repo, viewer, id, false)
	if err != nil {
		return nil, err
	}
	view := View(*row, role, s.machine)
	return &view, nil
}

// PerformAction runs a table action that needs no payload. Disputes go
// through the dispute service because they carry a form.
func (s *service) PerformAction(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction) (*Transaction, error) {
	if !action.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid action %q", action).
			WithDetails(map[string]any{"field": "action"})
	}
	if action == enums.TransactionActionDispute {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "disputes must be submitted to POST /api/v1/transactions/{id}/disputes").
			WithDetails(map[string]any{"field": "action"})
	}
	return s.Dispatch(ctx, viewer, id, action, nil)
}

func (s *service) Dispatch(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction, within WithinFunc) (*Transaction, error) {
	ctx = s.logg.WithTransactionID(ctx, id)
	var (
		updated models.Transaction
		role    enums.TransactionRole
		notice  notifications.Notification
		outcome Outcome
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, r, err := s.load(ctx, repo, viewer, id, true)
		if err != nil {
			return err
		}
		role = r

		outcome = s.machine.Apply(StateOf(*row), role, action)
		if !outcome.Applied {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "action %s is not allowed for a %s on a %s transaction", action, role, row.Status).
				WithDetails(map[string]any{
					"status":           row.Status,
					"userRole":         role,
					"action":           action,
					"availableActions": s.machine.Available(row.Status, role),
				})
		}

		now := s.now().UTC()
		if outcome.Changed {
			ok, err := repo.UpdateState(ctx, row.ID, StateOf(*row), outcome.State, now)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transaction")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction changed concurrently; reload and retry")
			}
			row.Status = outcome.State.Status
			row.EscrowStatus = outcome.State.Escrow
			row.BranchedFrom = outcome.State.BranchedFrom
			row.UpdatedAt = now
		}

		if outcome.State.Status == enums.TransactionStatusCancelled && row.ProductID != nil {
			if err := s.products.WithTx(tx).SetSold(ctx, *row.ProductID, false); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "relist product")
			}
		}

		if within != nil {
			if err := within(tx, *row, role); err != nil {
				return err
			}
		}

		notice, err = s.notifier.Prepare(viewer, outcome.Rule.Notice.Input(row.ID))
		if err != nil {
			return err
		}
		if err := s.notifier.Record(ctx, tx, viewer, notice); err != nil {
			return err
		}
		updated = *row
		return nil
	})
	if err != nil {
		s.observe(action, outcomeLabel(err))
		return nil, err
	}

	s.notifier.Publish(ctx, viewer, notice)
	s.observe(action, "applied")
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"action":        action,
		"user_role":     role,
		"status":        updated.Status,
		"escrow_status": updated.EscrowStatus,
	}), "transaction action applied")

	view := View(updated, role, s.machine)
	return &view, nil
}

func (s *service) Purchase(ctx context.Context, buyer uuid.UUID, input PurchaseInput) (*Transaction, error) {
	if buyer == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method required")
	}

	var (
		created     models.Transaction
		buyerNotice notifications.Notification
		sellerID    uuid.UUID
		sellerNote  notifications.Notification
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		item, err := s.products.WithTx(tx).FindByIDForUpdate(ctx, input.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if item.SellerID == buyer {
			return pkgerrors.New(pkgerrors.CodeForbidden, "sellers cannot buy their own listing")
		}
		if item.IsSold {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is no longer available")
		}

		level, err := s.scorer.Score(ctx, risk.SubjectFromProduct(*item))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "score transaction risk")
		}

		now := s.now().UTC()
		repo := s.repo.WithTx(tx)
		seq, err := repo.NextSequence(ctx, now.Year())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate transaction id")
		}

		productID := item.ID
		created = models.Transaction{
			ID:            FormatID(now.Year(), seq),
			ProductID:     &productID,
			ProductName:   item.Title,
			ProductImage:  item.ImageURL,
			BuyerID:       buyer,
			SellerID:      item.SellerID,
			Amount:        item.Price,
			Fee:           s.fees.Fee(item.Price),
			Status:        enums.TransactionStatusPending,
			EscrowStatus:  enums.EscrowStatusProcessing,
			RiskLevel:     level,
			PaymentMethod: paymentMethod,
			Notes:         input.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Create(ctx, &created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
		}
		if err := s.products.WithTx(tx).SetSold(ctx, item.ID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve product")
		}

		buyerNotice, err = s.notifier.Prepare(buyer, noticePlaced.Input(created.ID))
		if err != nil {
			return err
		}
		if err := s.notifier.Record(ctx, tx, buyer, buyerNotice); err != nil {
			return err
		}
		sellerID = item.SellerID
		sellerNote, err = s.notifier.Prepare(sellerID, noticeNewOrder.Input(created.ID))
		if err != nil {
			return err
		}
		return s.notifier.Record(ctx, tx, sellerID, sellerNote)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, buyer, buyerNotice)
	s.notifier.Publish(ctx, sellerID, sellerNote)
	s.logg.Info(s.logg.WithFields(s.logg.WithTransactionID(ctx, created.ID), map[string]any{
		"product_id": input.ProductID.String(),
		"amount":     created.Amount.String(),
		"risk_level": created.RiskLevel,
	}), "purchase created")

	return s.Get(ctx, buyer, created.ID)
}

// load fetches id and resolves the viewer's role. Strangers get NOT_FOUND so
// transaction ids cannot be probed.
func (s *service) load(ctx context.Context, repo Repository, viewer uuid.UUID, id string, lock bool) (*models.Transaction, enums.TransactionRole, error) {
	if viewer == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if _, _, err := ParseID(id); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction id")
	}
	find := repo.FindByID
	if lock {
		find = repo.FindByIDForUpdate
	}
	row, err := find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	role, ok := RoleOf(*row, viewer)
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return row, role, nil
}

func (s *service) observe(action enums.TransactionAction, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveAction(string(action), outcome)
}

func outcomeLabel(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
		return "rejected"
	case pkgerrors.IsUserInput(err):
		return "invalid"
	default:
		return "error"
	}
}
