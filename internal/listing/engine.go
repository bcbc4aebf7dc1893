// Package listing narrows and orders in-memory collections. Products and
// transactions both run through it so filter semantics stay identical across
// list endpoints.
package listing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
)

// Filter reports whether an item satisfies one criterion. A nil Filter imposes
// no constraint, which is how absent criteria are expressed.
type Filter[T any] func(T) bool

// Compare orders two items the way cmp.Compare does.
type Compare[T any] func(a, b T) int

// Apply keeps the items matching every filter and orders them with cmp. The
// sort is stable: items that compare equal keep their input order. items is
// not modified.
func Apply[T any](items []T, filters []Filter[T], cmp Compare[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, filters) {
			out = append(out, item)
		}
	}
	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func matchesAll[T any](item T, filters []Filter[T]) bool {
	for _, f := range filters {
		if f != nil && !f(item) {
			return false
		}
	}
	return true
}

// Direction applies dir to cmp. Reversal negates the comparison, so ties stay
// ties and keep input order under a stable sort.
func Direction[T any](cmp Compare[T], dir enums.SortDirection) Compare[T] {
	if cmp == nil || dir != enums.SortDesc {
		return cmp
	}
	return func(a, b T) int { return -cmp(a, b) }
}

// Sorts maps each supported sort key to its ascending comparator.
type Sorts[T any] struct {
	byKey      map[enums.SortKey]Compare[T]
	defaultKey enums.SortKey
	defaultDir map[enums.SortKey]enums.SortDirection
}

// NewSorts builds a sort table whose fallback key is defaultKey.
func NewSorts[T any](defaultKey enums.SortKey) *Sorts[T] {
	return &Sorts[T]{
		byKey:      make(map[enums.SortKey]Compare[T]),
		defaultKey: defaultKey,
		defaultDir: make(map[enums.SortKey]enums.SortDirection),
	}
}

// Register adds key with its ascending comparator and the direction used when
// a request names the key without a direction.
func (s *Sorts[T]) Register(key enums.SortKey, cmp Compare[T], dir enums.SortDirection) *Sorts[T] {
	s.byKey[key] = cmp
	s.defaultDir[key] = dir
	return s
}

// Resolve returns the comparator for key and dir. An empty key falls back to
// the default key; an empty dir to that key's natural direction.
func (s *Sorts[T]) Resolve(key enums.SortKey, dir enums.SortDirection) (Compare[T], error) {
	if key == "" {
		key = s.defaultKey
	}
	cmp, ok := s.byKey[key]
	if !ok {
		return nil, &UnsupportedSortError{Key: key, Supported: s.Keys()}
	}
	if dir == "" {
		dir = s.defaultDir[key]
	}
	return Direction(cmp, dir), nil
}

// Keys lists the registered sort keys.
func (s *Sorts[T]) Keys() []enums.SortKey {
	keys := make([]enums.SortKey, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// UnsupportedSortError is returned by Resolve for a key the table does not
// register.
type UnsupportedSortError struct {
	Key       enums.SortKey
	Supported []enums.SortKey
}

func (e *UnsupportedSortError) Error() string {
	return fmt.Sprintf("unsupported sort key %q", e.Key)
}

// SortValidationError converts a Resolve failure into a validation error
// whose details list the supported keys.
func SortValidationError(err error) error {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort")
	var unsupported *UnsupportedSortError
	if errors.As(err, &unsupported) {
		return wrapped.WithDetails(map[string]any{"sort": unsupported.Key, "supported": unsupported.Supported})
	}
	return wrapped
}
