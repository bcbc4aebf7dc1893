package disputes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
	"gorm.io/gorm"
)

const statusOpen = "open"

type dispatcher interface {
	Get(ctx context.Context, viewer uuid.UUID, id string) (*transactions.Transaction, error)
	Dispatch(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction, within transactions.WithinFunc) (*transactions.Transaction, error)
}

// Service submits and lists disputes.
type Service interface {
	Submit(ctx context.Context, viewer uuid.UUID, transactionID string, input SubmitInput) (*SubmitResult, error)
	List(ctx context.Context, viewer uuid.UUID, transactionID string) ([]Dispute, error)
}

// ServiceParams configure the dispute service.
type ServiceParams struct {
	Repository   Repository
	Transactions dispatcher
	Limits       Limits
	Metrics      *metrics.TransactionMetrics
	Logger       *logger.Logger
	Clock        func() time.Time
}

type service struct {
	repo    Repository
	txns    dispatcher
	limits  Limits
	metrics *metrics.TransactionMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "disputes repository required")
	}
	if params.Transactions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transactions service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:    params.Repository,
		txns:    params.Transactions,
		limits:  params.Limits.normalized(),
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     clock,
	}, nil
}

// Submit validates the form, then moves the transaction to disputed and stores
// the dispute in the same database transaction.
func (s *service) Submit(ctx context.Context, viewer uuid.UUID, transactionID string, input SubmitInput) (*SubmitResult, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var created models.Dispute
	view, err := s.txns.Dispatch(ctx, viewer, transactionID, enums.TransactionActionDispute,
		func(tx *gorm.DB, row models.Transaction, role enums.TransactionRole) error {
			created = s.build(row.ID, viewer, role, input)
			if err := s.repo.WithTx(tx).Create(ctx, &created); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist dispute")
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveDispute(string(input.Reason))
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithTransactionID(ctx, transactionID), map[string]any{
		"dispute_id":       created.ID.String(),
		"reason":           input.Reason,
		"requested_action": input.RequestedAction,
		"evidence_count":   len(input.Evidence),
	}), "dispute submitted")

	return &SubmitResult{Dispute: fromModel(created), Transaction: *view}, nil
}

// List returns the disputes on a transaction the viewer is party to.
func (s *service) List(ctx context.Context, viewer uuid.UUID, transactionID string) ([]Dispute, error) {
	if _, err := s.txns.Get(ctx, viewer, transactionID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list disputes")
	}
	out := make([]Dispute, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) validate(input SubmitInput) error {
	switch {
	case !input.Reason.IsValid():
		return fieldError("reason", "invalid dispute reason")
	case input.Description == "":
		return fieldError("description", "description is required")
	case !input.RequestedAction.IsValid():
		return fieldError("requestedAction", "invalid requested action")
	case len(input.Evidence) > s.limits.MaxFiles:
		return fieldError("evidence", "too many evidence files").
			WithDetails(map[string]any{"field": "evidence", "max": s.limits.MaxFiles})
	}
	for _, file := range input.Evidence {
		if strings.TrimSpace(file.Name) == "" {
			return fieldError("evidence", "evidence file name is required")
		}
		if file.Size <= 0 || file.Size > s.limits.MaxBytes {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be between 1 byte and %d MB", file.Name, s.limits.MaxBytes>>20).
				WithDetails(map[string]any{"field": "evidence", "file": file.Name, "maxBytes": s.limits.MaxBytes})
		}
		if !allowedEvidenceType(file.MimeType) {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be one of %s", file.Name, allowedEvidenceDescription()).
				WithDetails(map[string]any{"field": "evidence", "file": file.Name, "mimeType": file.MimeType})
		}
	}
	return nil
}

func (s *service) build(transactionID string, viewer uuid.UUID, role enums.TransactionRole, input SubmitInput) models.Dispute {
	now := s.now().UTC()
	id := uuid.New()
	evidence := make([]models.DisputeEvidence, 0, len(input.Evidence))
	for _, file := range input.Evidence {
		evidence = append(evidence, models.DisputeEvidence{
			ID:        uuid.New(),
			DisputeID: id,
			FileName:  strings.TrimSpace(file.Name),
			SizeBytes: file.Size,
			MimeType:  normalizeMime(file.MimeType),
			CreatedAt: now,
		})
	}
	return models.Dispute{
		ID:              id,
		TransactionID:   transactionID,
		OpenedBy:        viewer,
		OpenedByRole:    role,
		Reason:          input.Reason,
		Description:     input.Description,
		RequestedAction: input.RequestedAction,
		Status:          statusOpen,
		Evidence:        evidence,
		CreatedAt:       now,
	}
}

func fieldError(field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
