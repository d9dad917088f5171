package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date format used in records
	DateLayout = "2006-01-02"
	// TimeLayout is the wall-clock format used in history records
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate        = errors.New("invalid date (use YYYY-MM-DD)")
	ErrUnknownProductType = errors.New("unknown product type")
)

// ParseDate parses a YYYY-MM-DD string into a civil date (UTC midnight). Surrounding
// whitespace makes the date invalid.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// CivilDate drops the clock and zone from t, keeping its calendar day in t's location
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from -> to (negative if to is earlier)
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)) / (24 * time.Hour))
}

// FormatDate renders the calendar day of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders the wall-clock time of t as HH:mm
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseCooldown coerces data-entry input to a cooldown; anything non-numeric or negative is 0
func ParseCooldown(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseProductType accepts a type name case-insensitively. "enzyme" and "acids" are
// accepted as aliases for acid.
func ParseProductType(s string) (ProductType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cleanser":
		return TypeCleanser, nil
	case "recovery":
		return TypeRecovery, nil
	case "retinol":
		return TypeRetinol, nil
	case "acid", "acids", "enzyme":
		return TypeAcid, nil
	case "peeling":
		return TypePeeling, nil
	case "other":
		return TypeOther, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProductType, s)
}
