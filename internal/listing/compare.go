package listing

import (
	"cmp"
	"time"

	"github.com/shopspring/decimal"
)

// By orders items on a cmp.Ordered key.
func By[T any, K cmp.Ordered](key func(T) K) Compare[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ByDecimal orders items on a decimal key.
func ByDecimal[T any](key func(T) decimal.Decimal) Compare[T] {
	return func(a, b T) int { return key(a).Cmp(key(b)) }
}

// ByTime orders items on a timestamp key.
func ByTime[T any](key func(T) time.Time) Compare[T] {
	return func(a, b T) int { return key(a).Compare(key(b)) }
}
