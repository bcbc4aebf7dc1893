package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Repository exposes persistence helpers for transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.Transaction) error
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Transaction, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	UpdateState(ctx context.Context, id string, from State, to State, now time.Time) (bool, error)
	NextSequence(ctx context.Context, year int) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a transactions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, row *models.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the row for the surrounding transaction. sqlite has
// no row locks and relies on its single writer instead.
func (r *repositoryImpl) FindByIDForUpdate(ctx context.Context, id string) (*models.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}), id)
}

func (r *repositoryImpl) find(query *gorm.DB, id string) (*models.Transaction, error) {
	var row models.Transaction
	err := query.
		Preload("Buyer").
		Preload("Seller").
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Seller").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateState writes to only if the row still holds from's status, so a
// concurrent transition makes this a no-op reported as false.
func (r *repositoryImpl) UpdateState(ctx context.Context, id string, from State, to State, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from.Status).
		Updates(map[string]any{
			"status":        to.Status,
			"escrow_status": to.Escrow,
			"branched_from": to.BranchedFrom,
			"updated_at":    now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// NextSequence increments and returns the per-year id counter.
func (r *repositoryImpl) NextSequence(ctx context.Context, year int) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
INSERT INTO transaction_sequences (year, last_value) VALUES (?, 1)
ON CONFLICT (year) DO UPDATE SET last_value = transaction_sequences.last_value + 1
RETURNING last_value`, year).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
