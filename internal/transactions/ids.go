package transactions

import (
	"fmt"
	"regexp"
	"strconv"
)

var idPattern = regexp.MustCompile(`^SW-(\d{4})-(\d{3,})$`)

// FormatID renders the human-readable transaction id.
func FormatID(year int, seq int64) string {
	return fmt.Sprintf("SW-%d-%03d", year, seq)
}

// ParseID splits a transaction id into its year and sequence.
func ParseID(id string) (year int, seq int64, err error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid transaction id %q", id)
	}
	year, _ = strconv.Atoi(m[1])
	seq, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid transaction id %q: %w", id, err)
	}
	return year, seq, nil
}
