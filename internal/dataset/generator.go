// internal/dataset/generator.go
package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sangrahak/inventroops/internal/domain"
)

// GeneratorConfig controls the synthetic training dataset.
type GeneratorConfig struct {
	Items     int
	Days      int
	Seed      int64
	StartDate time.Time
}

// DefaultGeneratorConfig produces the standard training set: 2000 items
// observed daily over a year.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Items:     2000,
		Days:      365,
		Seed:      42,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var categories = []string{"Electronics", "Grocery", "Clothing", "Furniture", "Toys"}

var brandsByCategory = map[string][]string{
	"Electronics": {"Samsung", "Mi", "OnePlus", "LG", "Sony"},
	"Clothing":    {"Peter England", "Levi's", "Allen Solly", "Raymond"},
	"Grocery":     {"Amul", "Britannia", "Haldiram", "Dabur"},
	"Furniture":   {"Godrej", "Urban Ladder", "Nilkamal"},
	"Toys":        {"Funskool", "Fisher-Price", "Chicco"},
}

var locations = []string{
	"Mumbai", "Delhi", "Bengaluru", "Hyderabad", "Chennai",
	"Kolkata", "Pune", "Ahmedabad", "Jaipur", "Lucknow",
}

var supplierFirstNames = []string{
	"Aarav", "Vihaan", "Ananya", "Diya", "Kabir", "Ishaan", "Meera", "Rohan", "Sneha", "Arjun",
}

var supplierLastNames = []string{
	"Sharma", "Patel", "Reddy", "Singh", "Iyer", "Gupta", "Nair", "Das", "Mehta", "Joshi",
}

// statusShare fixes the stock status mix of the generated dataset.
var statusShare = map[string]float64{
	domain.StatusUnderstock: 0.3,
	domain.StatusPerfect:    0.4,
	domain.StatusOverstock:  0.3,
}

// Generate produces a balanced, labelled observation set suitable for
// training. The same seed always yields the same dataset.
func Generate(cfg GeneratorConfig) []domain.Observation {
	if cfg.Items <= 0 || cfg.Days <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	// Pre-shuffle a perfectly balanced status sequence across all rows.
	total := cfg.Items * cfg.Days
	understock := int(float64(total) * statusShare[domain.StatusUnderstock])
	perfect := int(float64(total) * statusShare[domain.StatusPerfect])
	overstock := total - understock - perfect

	statuses := make([]string, 0, total)
	for i := 0; i < understock; i++ {
		statuses = append(statuses, domain.StatusUnderstock)
	}
	for i := 0; i < perfect; i++ {
		statuses = append(statuses, domain.StatusPerfect)
	}
	for i := 0; i < overstock; i++ {
		statuses = append(statuses, domain.StatusOverstock)
	}
	rng.Shuffle(len(statuses), func(i, j int) {
		statuses[i], statuses[j] = statuses[j], statuses[i]
	})

	observations := make([]domain.Observation, 0, total)
	row := 0

	for i := 0; i < cfg.Items; i++ {
		item := randomItem(rng, i+1)
		stock := initialStock(rng, statuses[row], item.ReorderLevel)

		for day := 0; day < cfg.Days; day++ {
			date := cfg.StartDate.AddDate(0, 0, day)
			dailySales := math.Max(0, math.Floor(rng.NormFloat64()*10+15))
			stock = math.Max(0, stock-dailySales)

			status := statuses[row]
			row++

			observations = append(observations, domain.Observation{
				Item:            item,
				Date:            date,
				CurrentStock:    stock,
				DailySales:      dailySales,
				WeeklySales:     dailySales * 7,
				DaysToEmpty:     stock / math.Max(dailySales, 1),
				LastRestockDate: date.AddDate(0, 0, -(1 + rng.Intn(30))),
				StockStatus:     status,
				Priority:        priorityFor(rng, status),
			})
		}
	}

	return observations
}

func randomItem(rng *rand.Rand, id int) domain.Item {
	category := categories[rng.Intn(len(categories))]
	brands := brandsByCategory[category]

	return domain.Item{
		ItemID:       fmt.Sprintf("%d", id),
		ProductName:  fmt.Sprintf("%s %s", productAdjectives[rng.Intn(len(productAdjectives))], productNouns[rng.Intn(len(productNouns))]),
		Brand:        brands[rng.Intn(len(brands))],
		Category:     category,
		Location:     locations[rng.Intn(len(locations))],
		SupplierID:   1000 + rng.Intn(1001),
		SupplierName: fmt.Sprintf("%s %s", supplierFirstNames[rng.Intn(len(supplierFirstNames))], supplierLastNames[rng.Intn(len(supplierLastNames))]),
		ReorderLevel: float64(20 + rng.Intn(80)),
		LeadTime:     float64(3 + rng.Intn(12)),
	}
}

var productAdjectives = []string{"Crimson", "Azure", "Golden", "Ivory", "Emerald", "Slate", "Amber", "Coral"}

var productNouns = []string{"Classic", "Prime", "Deluxe", "Essential", "Compact", "Premium", "Select", "Value"}

// initialStock places the opening stock level inside the band implied by the
// item's first status.
func initialStock(rng *rand.Rand, status string, reorder float64) float64 {
	r := int(reorder)
	switch status {
	case domain.StatusUnderstock:
		return float64(rng.Intn(r))
	case domain.StatusPerfect:
		return float64(r + rng.Intn(r))
	default: // Overstock
		return float64(2*r + 1 + rng.Intn(2*r))
	}
}

// priorityFor draws a priority correlated with the stock status so the two
// labels carry a realistic joint distribution.
func priorityFor(rng *rand.Rand, status string) string {
	switch status {
	case domain.StatusUnderstock:
		if rng.Intn(2) == 0 {
			return domain.PriorityHigh
		}
		return domain.PriorityVeryHigh
	case domain.StatusPerfect:
		if rng.Intn(2) == 0 {
			return domain.PriorityMedium
		}
		return domain.PriorityHigh
	default:
		if rng.Intn(2) == 0 {
			return domain.PriorityLow
		}
		return domain.PriorityMedium
	}
}
