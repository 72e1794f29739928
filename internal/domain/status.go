package domain

import "strings"

// Stock status labels assigned to an item's current inventory level.
const (
	StatusUnderstock = "Understock"
	StatusPerfect    = "Perfect"
	StatusOverstock  = "Overstock"
)

// Restock priority labels, lowest to highest urgency.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityVeryHigh = "Very High"
)

// UnknownLabel is the reserved bucket for values outside a trained domain.
const UnknownLabel = "Unknown"

// StockStatuses lists the valid stock status labels in canonical order.
func StockStatuses() []string {
	return []string{StatusUnderstock, StatusPerfect, StatusOverstock}
}

// Priorities lists the valid priority labels in canonical order.
func Priorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityVeryHigh}
}

// IsUrgentPriority reports whether a priority label calls for immediate restock.
func IsUrgentPriority(priority string) bool {
	return priority == PriorityHigh || priority == PriorityVeryHigh
}

// ParseStockStatus returns the canonical stock status for a label (case-insensitive).
func ParseStockStatus(label string) (string, bool) {
	for _, s := range StockStatuses() {
		if strings.EqualFold(strings.TrimSpace(label), s) {
			return s, true
		}
	}

	return "", false
}

// ParsePriority returns the canonical priority for a label (case-insensitive).
func ParsePriority(label string) (string, bool) {
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(label), p) {
			return p, true
		}
	}

	return "", false
}
