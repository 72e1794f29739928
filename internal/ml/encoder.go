// internal/ml/encoder.go
package ml

import (
	"fmt"
	"sort"

	"github.com/sangrahak/inventroops/internal/domain"
)

// Categorical feature columns, in encoding order.
var CategoricalColumns = []string{"brand", "category", "location", "supplier_name"}

// featureColumns fixes the feature vector layout. The order is identical
// between training and inference; changing it invalidates every trained model.
var featureColumns = []string{
	"current_stock",
	"daily_sales",
	"weekly_sales",
	"reorder_level",
	"lead_time",
	"days_to_empty",
	"brand",
	"category",
	"location",
	"supplier_name",
}

// FeatureCount returns the width of the encoded feature vector.
func FeatureCount() int {
	return len(featureColumns)
}

// FeatureColumns returns the fixed feature layout.
func FeatureColumns() []string {
	out := make([]string, len(featureColumns))
	copy(out, featureColumns)
	return out
}

// Vocabulary maps each categorical column to its string→code table. Codes are
// assigned once at training time and stay stable for the lifetime of a
// deployed classifier; inference only ever adds the reserved Unknown code.
type Vocabulary map[string]map[string]int

// FitVocabulary builds per-column code tables from the training value sets.
// Codes follow sorted label order, and the Unknown bucket is always present.
func FitVocabulary(categories map[string][]string) Vocabulary {
	vocab := make(Vocabulary, len(categories))
	for column, values := range categories {
		seen := map[string]struct{}{domain.UnknownLabel: {}}
		for _, v := range values {
			seen[coerce(v)] = struct{}{}
		}

		labels := make([]string, 0, len(seen))
		for label := range seen {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		table := make(map[string]int, len(labels))
		for code, label := range labels {
			table[label] = code
		}
		vocab[column] = table
	}
	return vocab
}

// EnsureUnknown adds the Unknown code to any column missing it. Bundles built
// before the reserved bucket existed get it appended here, at load time, so
// concurrent inference never mutates the vocabulary.
func (v Vocabulary) EnsureUnknown() {
	for column, table := range v {
		if _, ok := table[domain.UnknownLabel]; !ok {
			table[domain.UnknownLabel] = len(table)
		}
		v[column] = table
	}
}

// Code looks up a value's integer code, degrading to the Unknown code for any
// value outside the trained vocabulary. It never fails for unseen input.
func (v Vocabulary) Code(column, value string) (int, error) {
	table, ok := v[column]
	if !ok {
		return 0, fmt.Errorf("no vocabulary for column %q", column)
	}
	if code, ok := table[coerce(value)]; ok {
		return code, nil
	}
	code, ok := table[domain.UnknownLabel]
	if !ok {
		return 0, fmt.Errorf("vocabulary for column %q has no %s code", column, domain.UnknownLabel)
	}
	return code, nil
}

// Encode projects an observation onto the fixed numeric feature vector.
func (v Vocabulary) Encode(obs domain.Observation) ([]float64, error) {
	brand, err := v.Code("brand", obs.Item.Brand)
	if err != nil {
		return nil, err
	}
	category, err := v.Code("category", obs.Item.Category)
	if err != nil {
		return nil, err
	}
	location, err := v.Code("location", obs.Item.Location)
	if err != nil {
		return nil, err
	}
	supplier, err := v.Code("supplier_name", obs.Item.SupplierName)
	if err != nil {
		return nil, err
	}

	return []float64{
		obs.CurrentStock,
		obs.DailySales,
		obs.WeeklySales,
		obs.Item.ReorderLevel,
		obs.Item.LeadTime,
		obs.DaysToEmpty,
		float64(brand),
		float64(category),
		float64(location),
		float64(supplier),
	}, nil
}

// Validate checks that every categorical column has a table with the reserved
// Unknown code. Used at bundle load; failure is a ConfigurationError upstream.
func (v Vocabulary) Validate() error {
	for _, column := range CategoricalColumns {
		table, ok := v[column]
		if !ok {
			return fmt.Errorf("missing vocabulary for column %q", column)
		}
		if _, ok := table[domain.UnknownLabel]; !ok {
			return fmt.Errorf("vocabulary for column %q has no %s code", column, domain.UnknownLabel)
		}
	}
	return nil
}

// coerce normalizes a categorical value to its lookup form. Empty strings are
// treated as Unknown rather than becoming their own category.
func coerce(value string) string {
	if value == "" {
		return domain.UnknownLabel
	}
	return value
}
