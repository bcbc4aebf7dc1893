package product

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/listing"
	"github.com/swapsafe/swapsafe-backend/internal/risk"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

const relatedLimit = 4

// Service exposes marketplace browse operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error)
	GetProduct(ctx context.Context, id uuid.UUID, origin *Coordinates) (*ProductDetail, error)
}

type service struct {
	repo   Repository
	scorer risk.Scorer
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires product dependencies.
func NewService(repo Repository, scorer risk.Scorer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	if scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "risk scorer required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, scorer: scorer, logg: logg, now: time.Now}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error) {
	if input.Filters.PriceMin != nil && input.Filters.PriceMax != nil && input.Filters.PriceMin.GreaterThan(*input.Filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "priceMin must not exceed priceMax")
	}
	for _, c := range input.Filters.Conditions {
		if !c.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid condition %q", c)
		}
	}
	if input.Filters.Category != "" && !input.Filters.Category.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", input.Filters.Category)
	}

	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row, input.Origin))
	}

	page, err := Browse(items, input)
	if err != nil {
		return nil, listing.SortValidationError(err)
	}
	return &page, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID, origin *Coordinates) (*ProductDetail, error) {
	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "product_id", id.String()), "failed to record product view")
	} else {
		row.Views++
	}

	report, err := risk.Analyze(ctx, s.scorer, risk.SubjectFromProduct(*row), s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "analyze product")
	}

	relatedRows, err := s.repo.ListRelated(ctx, row.Category, row.ID, relatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list related products")
	}
	related := make([]ProductDTO, 0, len(relatedRows))
	for _, r := range relatedRows {
		related = append(related, FromModel(r, origin))
	}

	return &ProductDetail{
		Product:  FromModel(*row, origin),
		Analysis: report,
		Related:  related,
	}, nil
}
