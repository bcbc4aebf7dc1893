package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	DB           txRunner
	WishlistRepo *Repository
	ProductRepo  productFinder
}

// Service manages a user's favorited products.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[Favorite], error)
	ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*Toggle, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*Toggle, error)
}

type service struct {
	db           txRunner
	wishlistRepo *Repository
	productRepo  productFinder
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repo is required")
	}
	return &service{
		db:           params.DB,
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[Favorite], error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	p := params.Normalize()
	rows, total, err := s.wishlistRepo.ListItems(ctx, userID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	items := make([]Favorite, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		items = append(items, Favorite{Product: products.FromModel(*row.Product, nil), SavedAt: row.CreatedAt})
	}
	return &pagination.Page[Favorite]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    int(total),
		HasMore:  p.Offset()+len(rows) < int(total),
	}, nil
}

func (s *service) ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.wishlistRepo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite ids")
	}
	return ids, nil
}

// Add favorites the product. Repeating it is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*Toggle, error) {
	if err := s.ensureProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	out := &Toggle{ProductID: productID, Favorited: true}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		added, err := repo.AddItem(ctx, userID, productID)
		if err != nil {
			return err
		}
		delta := 0
		if added {
			delta = 1
		}
		out.Favorites, err = repo.AdjustFavorites(ctx, productID, delta)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return out, nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*Toggle, error) {
	if err := s.ensureProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	out := &Toggle{ProductID: productID}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		removed, err := repo.RemoveItem(ctx, userID, productID)
		if err != nil {
			return err
		}
		delta := 0
		if removed {
			delta = -1
		}
		out.Favorites, err = repo.AdjustFavorites(ctx, productID, delta)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return out, nil
}

func (s *service) ensureProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return nil
}
