package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a product id does not exist.
var ErrNotFound = errors.New("product not found")

// Repository exposes persistence helpers for marketplace listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAvailable(ctx context.Context) ([]models.Product, error)
	ListRelated(ctx context.Context, category enums.ProductCategory, exclude uuid.UUID, limit int) ([]models.Product, error)
	CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
	SetSold(ctx context.Context, id uuid.UUID, sold bool) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}), id)
}

func (r *repository) find(query *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := query.Preload("Seller").Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListAvailable returns every unsold listing with its seller loaded.
func (r *repository) ListAvailable(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Where("is_sold = ?", false).
		Order("listed_at DESC").
		Find(&products).Error
	return products, err
}

func (r *repository) ListRelated(ctx context.Context, category enums.ProductCategory, exclude uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Where("category = ? AND id <> ? AND is_sold = ?", category, exclude, false).
		Order("views + favorites DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *repository) CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("seller_id = ? AND is_sold = ?", sellerID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) SetSold(ctx context.Context, id uuid.UUID, sold bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("is_sold", sold).Error
}

func (r *repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
