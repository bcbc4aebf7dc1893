package wishlist

import (
	"context"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// AddItem inserts a favorite and ignores duplicates. added is false when the
// pair already existed.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}
	item := models.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: productID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RemoveItem deletes the favorite if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdjustFavorites moves the product's favorites counter by delta, never below
// zero, and returns the new value.
func (r *Repository) AdjustFavorites(ctx context.Context, productID uuid.UUID, delta int) (int, error) {
	if delta != 0 {
		expr := gorm.Expr("CASE WHEN favorites + ? < 0 THEN 0 ELSE favorites + ? END", delta, delta)
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("favorites", expr).
			Error; err != nil {
			return 0, err
		}
	}
	var favorites int
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("favorites").
		Where("id = ?", productID).
		Scan(&favorites).
		Error
	return favorites, err
}

// ListItems returns one page of a user's favorites, newest first, with the
// product and its seller loaded.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.WishlistItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product.Seller").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&rows).
		Error
	return rows, total, err
}

// ListProductIDs returns every product id the user favorited.
func (r *Repository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("product_id", &ids).
		Error
	return ids, err
}
