package engine

import "time"

// Evaluate computes whether product may be used on referenceDate given the usage history.
//
// A product with cooldown N used on day D rests through D+N and is eligible again on
// D+N+1. Only the most recent valid usage date counts; entries with malformed dates are
// ignored.
func Evaluate(product Product, history []HistoryEntry, referenceDate time.Time) Availability {
	lastUsed, ok := LastUsed(product.ID, history)
	if !ok {
		return Availability{Eligible: true}
	}
	if product.CooldownDays == 0 {
		return Availability{Eligible: true, LastUsed: lastUsed}
	}

	daysSince := DaysBetween(lastUsed, referenceDate)
	if daysSince > product.CooldownDays {
		return Availability{Eligible: true, LastUsed: lastUsed}
	}

	return Availability{
		Eligible:      false,
		DaysRemaining: product.CooldownDays - daysSince + 1,
		LastUsed:      lastUsed,
	}
}

// LastUsed returns the latest valid date on which productID was logged
func LastUsed(productID string, history []HistoryEntry) (time.Time, bool) {
	var last time.Time
	found := false

	for _, entry := range history {
		if !containsID(entry.ProductsUsedIDs, productID) {
			continue
		}
		d, err := ParseDate(entry.Date)
		if err != nil {
			continue
		}
		if !found || d.After(last) {
			last = d
			found = true
		}
	}

	return last, found
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
