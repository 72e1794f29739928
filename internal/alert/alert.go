// internal/alert/alert.go
package alert

import (
	"fmt"
	"strings"

	"github.com/sangrahak/inventroops/internal/domain"
)

// Synthesize combines classifier output and forecast output into the
// human-readable restock alert. Clauses are evaluated in a fixed order and
// every matching clause is kept, joined with "; "; when nothing matches the
// alert is "Stock OK", so the result is never empty.
func Synthesize(predictedStatus, predictedPriority string, currentStock float64, forecastValues []float64) string {
	var clauses []string

	if predictedStatus == domain.StatusUnderstock || domain.IsUrgentPriority(predictedPriority) {
		clauses = append(clauses, fmt.Sprintf("Immediate Restock Needed: %s", predictedPriority))
	}

	if day, total, ok := StockOutDay(currentStock, forecastValues); ok {
		clauses = append(clauses,
			fmt.Sprintf("Stock Out Warning: Current stock will run out in ~%d days (Forecasted demand: %d units)", day, int(total)))
	}

	if len(clauses) == 0 {
		clauses = append(clauses, "Stock OK")
	}

	return strings.Join(clauses, "; ")
}

// StockOutDay walks the cumulative forecast and returns the first 1-based day
// on which projected demand exceeds the current stock, together with the
// total forecast demand. ok is false when stock outlasts the forecast window.
func StockOutDay(currentStock float64, forecastValues []float64) (day int, total float64, ok bool) {
	cumulative := 0.0
	for i, v := range forecastValues {
		cumulative += v
		total += v
		if !ok && cumulative > currentStock {
			day = i + 1
			ok = true
		}
	}
	return day, total, ok
}
