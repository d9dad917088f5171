package engine

import "time"

// ProductType classifies a product by what it does to the skin
type ProductType string

const (
	TypeCleanser ProductType = "cleanser"
	TypeRecovery ProductType = "recovery"
	TypeRetinol  ProductType = "retinol"
	TypeAcid     ProductType = "acid"
	TypePeeling  ProductType = "peeling"
	TypeOther    ProductType = "other"
)

// ProductTypes lists every type in display order
var ProductTypes = []ProductType{
	TypeCleanser,
	TypeRecovery,
	TypeRetinol,
	TypeAcid,
	TypePeeling,
	TypeOther,
}

// Product is a catalog item. Products are never edited, only added or deleted.
type Product struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Type         ProductType `json:"type" yaml:"type"`
	CooldownDays int         `json:"cooldownDays" yaml:"cooldownDays"` // 0 = always eligible
}

// HistoryEntry records one "save routine" action
type HistoryEntry struct {
	Date            string   `json:"date" yaml:"date"` // YYYY-MM-DD
	Time            string   `json:"time" yaml:"time"` // HH:mm
	DayTitle        string   `json:"dayTitle" yaml:"dayTitle"`
	ProductsUsedIDs []string `json:"productsUsedIds" yaml:"productsUsedIds"`
}

// RoutineStep is one day of the repeating cycle
type RoutineStep struct {
	DayNumber   string        `json:"dayNumber"`
	Description string        `json:"description"`
	TargetTypes []ProductType `json:"targetTypes"`
	Color       string        `json:"color"` // hex accent, presentation only
}

// Targets reports whether t is one of the step's emphasized types
func (s RoutineStep) Targets(t ProductType) bool {
	for _, target := range s.TargetTypes {
		if target == t {
			return true
		}
	}
	return false
}

// Settings holds installation-wide preferences
type Settings struct {
	IsDarkTheme bool      `json:"isDarkTheme" yaml:"isDarkTheme"`
	StartDate   time.Time `json:"startDate" yaml:"startDate"` // day 0 of the cycle
}

// Availability is the cooldown status of a single product on a reference date
type Availability struct {
	Eligible      bool      `json:"eligible"`
	DaysRemaining int       `json:"daysRemaining,omitempty"` // only meaningful when not eligible
	LastUsed      time.Time `json:"lastUsed"`                // zero if never used
}

// RecommendedProduct is an eligible product with its emphasis flag
type RecommendedProduct struct {
	Product     Product `json:"product"`
	Recommended bool    `json:"recommended"`
}

// Day is the result of a recommendation run
type Day struct {
	Date       time.Time            `json:"date"`
	DaysPassed int                  `json:"daysPassed"` // not clamped, may be negative
	Step       RoutineStep          `json:"step"`
	Products   []RecommendedProduct `json:"products"`
}
