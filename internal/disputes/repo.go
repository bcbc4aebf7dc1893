package disputes

import (
	"context"

	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists disputes and their evidence references.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dispute *models.Dispute) error
	ListByTransaction(ctx context.Context, transactionID string) ([]models.Dispute, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a disputes repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// Create inserts the dispute together with its evidence rows.
func (r *repositoryImpl) Create(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *repositoryImpl) ListByTransaction(ctx context.Context, transactionID string) ([]models.Dispute, error) {
	var rows []models.Dispute
	err := r.db.WithContext(ctx).
		Preload("Evidence", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
