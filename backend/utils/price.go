package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("price must be a valid non-negative number")

// MaxPrice is the largest accepted amount in minor units.
const MaxPrice int64 = 10_000_000_000

// ParsePrice converts a decimal amount such as "49.99" into minor currency
// units (4999).
func ParsePrice(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidPrice
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, ErrInvalidPrice
	}
	cents := math.Round(value * 100)
	if cents > float64(MaxPrice) {
		return 0, ErrInvalidPrice
	}
	return int64(cents), nil
}
