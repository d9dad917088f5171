package engine

import "time"

// Recommend builds the product list for today.
//
// Products still resting are dropped. The remaining ones keep catalog order, with
// recommended products moved ahead of the rest; the relative order inside each group
// never changes.
func Recommend(products []Product, history []HistoryEntry, startDate, today time.Time) Day {
	daysPassed := DaysBetween(startDate, today)
	step := StepForOffset(daysPassed)

	recommended := []RecommendedProduct{}
	others := []RecommendedProduct{}

	for _, p := range products {
		if !Evaluate(p, history, today).Eligible {
			continue
		}
		if IsRecommended(p.Type, step) {
			recommended = append(recommended, RecommendedProduct{Product: p, Recommended: true})
		} else {
			others = append(others, RecommendedProduct{Product: p})
		}
	}

	return Day{
		Date:       CivilDate(today),
		DaysPassed: daysPassed,
		Step:       step,
		Products:   append(recommended, others...),
	}
}

// IsRecommended reports whether a product type is emphasized on step.
// Cleansers and recovery products are emphasized every day.
func IsRecommended(t ProductType, step RoutineStep) bool {
	return t == TypeCleanser || t == TypeRecovery || step.Targets(t)
}

// NewEntry builds the history record for a routine saved at now
func NewEntry(now time.Time, productIDs []string) HistoryEntry {
	return HistoryEntry{
		Date:            FormatDate(now),
		Time:            FormatTime(now),
		DayTitle:        "",
		ProductsUsedIDs: append([]string(nil), productIDs...),
	}
}

// Prepend returns a new history with entry first. history itself is not modified.
func Prepend(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	return append(out, history...)
}
