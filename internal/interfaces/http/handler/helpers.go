package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("amount must be a decimal with at most 2 fraction digits")

// parseAmount parses a 2-decimal amount string ("8500.00") into hundredths.
// Floats never touch the value; the decimal package carries the exact digits.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errInvalidAmount
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return 0, errInvalidAmount
	}
	if !scaled.BigInt().IsInt64() {
		return 0, errInvalidAmount
	}
	return scaled.IntPart(), nil
}

// formatAmount renders hundredths as a 2-decimal string ("8500.00").
func formatAmount(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}

// parseRate parses a percentage string ("2.27") into hundredths of a percent.
func parseRate(s string) (int64, error) {
	return parseAmount(s)
}

// parseDate parses a day-granularity date and truncates it to UTC midnight.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// formatDate renders a date as yyyy-mm-dd; the zero time renders empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// parseAssetNumber parses a decimal asset number path or query parameter.
func parseAssetNumber(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
