package listing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContainsFold matches when needle is a case-insensitive substring of any
// field. A blank needle yields no filter.
func ContainsFold[T any](needle string, fields func(T) []string) Filter[T] {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return nil
	}
	return func(item T) bool {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}
}

// DecimalRange keeps items whose value lies within [min, max]. Either bound may
// be nil; with both nil there is no filter.
func DecimalRange[T any](min, max *decimal.Decimal, value func(T) decimal.Decimal) Filter[T] {
	if min == nil && max == nil {
		return nil
	}
	return func(item T) bool {
		v := value(item)
		if min != nil && v.LessThan(*min) {
			return false
		}
		if max != nil && v.GreaterThan(*max) {
			return false
		}
		return true
	}
}

// Number is the set of numeric types NumberRange accepts.
type Number interface {
	~int | ~int64 | ~float64
}

// NumberRange is DecimalRange for native numbers.
func NumberRange[T any, N Number](min, max *N, value func(T) N) Filter[T] {
	if min == nil && max == nil {
		return nil
	}
	return func(item T) bool {
		v := value(item)
		if min != nil && v < *min {
			return false
		}
		if max != nil && v > *max {
			return false
		}
		return true
	}
}

// TimeRange keeps items stamped within [from, to]. Either bound may be nil.
func TimeRange[T any](from, to *time.Time, value func(T) time.Time) Filter[T] {
	if from == nil && to == nil {
		return nil
	}
	return func(item T) bool {
		v := value(item)
		if from != nil && v.Before(*from) {
			return false
		}
		if to != nil && v.After(*to) {
			return false
		}
		return true
	}
}

// OneOf keeps items whose value is in set. An empty set yields no filter.
func OneOf[T any, V comparable](set []V, value func(T) V) Filter[T] {
	if len(set) == 0 {
		return nil
	}
	allowed := make(map[V]struct{}, len(set))
	for _, v := range set {
		allowed[v] = struct{}{}
	}
	return func(item T) bool {
		_, ok := allowed[value(item)]
		return ok
	}
}

// Equals keeps items whose value equals want. The zero value of V yields no
// filter.
func Equals[T any, V comparable](want V, value func(T) V) Filter[T] {
	var zero V
	if want == zero {
		return nil
	}
	return func(item T) bool { return value(item) == want }
}

// When applies pred only while enabled is true. Boolean criteria such as
// "verified sellers only" use it so false means unconstrained.
func When[T any](enabled bool, pred func(T) bool) Filter[T] {
	if !enabled {
		return nil
	}
	return pred
}

// EndOfDay moves t to the last representable instant of its calendar day so
// an inclusive date-only upper bound covers the whole day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}
