package g2b

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

// ParseMoney reads a loosely formatted amount such as "1,234,567",
// " 9 8 7 " or 100000000. Every non-digit character is dropped before
// parsing. The second result is false when there is no value: nil, blank,
// digit-free or out of range input.
func ParseMoney(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PriceOrZero is ParseMoney for per-record normalization: a missing or
// unparsable price becomes 0 so the record is still subject to range bounds
// instead of vanishing.
func PriceOrZero(v any) int64 {
	n, _ := ParseMoney(v)
	return n
}

// FormatWon renders an amount with thousands separators, e.g. 1,234,567.
func FormatWon(n int64) string {
	return humanize.Comma(n)
}
