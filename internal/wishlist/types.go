package wishlist

import (
	"time"

	"github.com/google/uuid"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
)

// Favorite is one saved product.
type Favorite struct {
	Product products.ProductDTO `json:"product"`
	SavedAt time.Time           `json:"savedAt"`
}

// Toggle reports the state after adding or removing a favorite.
type Toggle struct {
	ProductID uuid.UUID `json:"productId"`
	Favorited bool      `json:"favorited"`
	Favorites int       `json:"favorites"`
}
