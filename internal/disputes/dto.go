package disputes

import (
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// SubmitInput is the dispute form.
type SubmitInput struct {
	Reason          enums.DisputeReason   `json:"reason" validate:"required"`
	Description     string                `json:"description" validate:"required,max=2000"`
	RequestedAction enums.RequestedAction `json:"requestedAction" validate:"required"`
	Evidence        []EvidenceFile        `json:"evidence" validate:"dive"`
}

// Dispute is the API view of a stored dispute.
type Dispute struct {
	ID              uuid.UUID             `json:"id"`
	TransactionID   string                `json:"transactionId"`
	OpenedByRole    enums.TransactionRole `json:"openedByRole"`
	Reason          enums.DisputeReason   `json:"reason"`
	Description     string                `json:"description"`
	RequestedAction enums.RequestedAction `json:"requestedAction"`
	Status          string                `json:"status"`
	Evidence        []EvidenceFile        `json:"evidence"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// SubmitResult pairs the new dispute with the transaction it moved.
type SubmitResult struct {
	Dispute     Dispute                  `json:"dispute"`
	Transaction transactions.Transaction `json:"transaction"`
}

func fromModel(m models.Dispute) Dispute {
	evidence := make([]EvidenceFile, 0, len(m.Evidence))
	for _, e := range m.Evidence {
		evidence = append(evidence, EvidenceFile{Name: e.FileName, Size: e.SizeBytes, MimeType: e.MimeType})
	}
	return Dispute{
		ID:              m.ID,
		TransactionID:   m.TransactionID,
		OpenedByRole:    m.OpenedByRole,
		Reason:          m.Reason,
		Description:     m.Description,
		RequestedAction: m.RequestedAction,
		Status:          m.Status,
		Evidence:        evidence,
		CreatedAt:       m.CreatedAt,
	}
}
