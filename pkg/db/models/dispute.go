package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Dispute records a claim raised against a transaction. Resolution happens
// outside this service; Status stays "open" once written.
type Dispute struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	TransactionID   string                `gorm:"column:transaction_id;not null;index"`
	OpenedBy        uuid.UUID             `gorm:"column:opened_by;type:uuid;not null"`
	OpenedByRole    enums.TransactionRole `gorm:"column:opened_by_role;not null"`
	Reason          enums.DisputeReason   `gorm:"column:reason;not null"`
	Description     string                `gorm:"column:description;not null"`
	RequestedAction enums.RequestedAction `gorm:"column:requested_action;not null"`
	Status          string                `gorm:"column:status;not null;default:'open'"`
	Evidence        []DisputeEvidence     `gorm:"foreignKey:DisputeID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// DisputeEvidence is a reference to an uploaded file; the bytes live elsewhere.
type DisputeEvidence struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DisputeID uuid.UUID `gorm:"column:dispute_id;type:uuid;not null;index"`
	FileName  string    `gorm:"column:file_name;not null"`
	SizeBytes int64     `gorm:"column:size_bytes;not null"`
	MimeType  string    `gorm:"column:mime_type;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DisputeEvidence) TableName() string {
	return "dispute_evidence"
}
