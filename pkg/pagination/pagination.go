package pagination

const (
	// DefaultPageSize matches the marketplace grid.
	DefaultPageSize = 6
	// MaxPageSize caps page-based listings.
	MaxPageSize = 48
)

// Params holds page pagination inputs from controllers or services. Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

// Page is one window of an ordered result set.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
	HasMore  bool `json:"hasMore"`
}

// Normalize clamps page and size into their accepted ranges.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows preceding the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Slice cuts the page described by params out of an already ordered slice.
func Slice[T any](items []T, params Params) Page[T] {
	n := params.Normalize()
	total := len(items)
	start := n.Offset()
	if start > total {
		start = total
	}
	end := start + n.PageSize
	if end > total {
		end = total
	}
	window := make([]T, end-start)
	copy(window, items[start:end])
	return Page[T]{
		Items:    window,
		Page:     n.Page,
		PageSize: n.PageSize,
		Total:    total,
		HasMore:  end < total,
	}
}
