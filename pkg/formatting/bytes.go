// Package formatting converts byte sizes between counts and strings such as
// "1MB" used in config files.
package formatting

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Base-1024 units. EB is the largest that fits in an int64.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n in the largest unit that keeps the value at or
// above one. Plain byte counts are always whole numbers.
func FormatBytes(n int64, precision int) string {
	size := float64(n)
	i := 0
	for math.Abs(size) >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		precision = 0
	}
	return strconv.FormatFloat(size, 'f', max(precision, 0), 64) + " " + units[i]
}

// ParseBytes reads a size such as "50MB", "1.5 kb" or "512". The unit is
// case-insensitive and a bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	number := strings.TrimRightFunc(s, unicode.IsLetter)
	unit := strings.ToUpper(s[len(number):])
	number = strings.TrimSpace(number)

	if number == "" || strings.Trim(number, "0123456789.") != "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	if unit == "" {
		return int64(value), nil
	}
	exp := slices.Index(units, unit)
	if exp < 0 {
		return 0, fmt.Errorf("unknown byte size unit %q", unit)
	}
	return int64(value * math.Pow(1024, float64(exp))), nil
}
