package ml

import (
	"testing"

	"github.com/sangrahak/inventroops/internal/domain"
)

func testVocabulary() Vocabulary {
	return FitVocabulary(map[string][]string{
		"brand":         {"BrandB", "BrandA", "BrandB"},
		"category":      {"Electronics", "Grocery"},
		"location":      {"Chicago", "Austin"},
		"supplier_name": {"Supplier One", "Supplier Two"},
	})
}

func TestFitVocabularySortedCodes(t *testing.T) {
	vocab := testVocabulary()

	tests := []struct {
		column string
		value  string
		want   int
	}{
		{"brand", "BrandA", 0},
		{"brand", "BrandB", 1},
		{"brand", "Unknown", 2},
		{"category", "Electronics", 0},
		{"category", "Grocery", 1},
		{"location", "Austin", 0},
		{"location", "Chicago", 1},
	}
	for _, tt := range tests {
		got, err := vocab.Code(tt.column, tt.value)
		if err != nil {
			t.Fatalf("Code(%q, %q) error: %v", tt.column, tt.value, err)
		}
		if got != tt.want {
			t.Errorf("Code(%q, %q) = %d, want %d", tt.column, tt.value, got, tt.want)
		}
	}
}

func TestCodeUnseenValueMapsToUnknown(t *testing.T) {
	vocab := testVocabulary()

	unknown, err := vocab.Code("brand", domain.UnknownLabel)
	if err != nil {
		t.Fatal(err)
	}

	for _, value := range []string{"NeverSeen", "", "brandb"} {
		got, err := vocab.Code("brand", value)
		if err != nil {
			t.Fatalf("Code(brand, %q) error: %v", value, err)
		}
		if got != unknown {
			t.Errorf("Code(brand, %q) = %d, want Unknown code %d", value, got, unknown)
		}
	}
}

func TestCodeUnknownColumnFails(t *testing.T) {
	vocab := testVocabulary()
	if _, err := vocab.Code("store", "anything"); err == nil {
		t.Error("expected error for column without a vocabulary")
	}
}

func TestEnsureUnknown(t *testing.T) {
	vocab := Vocabulary{
		"brand": {"BrandA": 0, "BrandB": 1},
	}
	vocab.EnsureUnknown()

	code, ok := vocab["brand"][domain.UnknownLabel]
	if !ok {
		t.Fatal("EnsureUnknown did not add the Unknown code")
	}
	if code != 2 {
		t.Errorf("Unknown code = %d, want 2 (appended after existing codes)", code)
	}

	// Existing codes must not move.
	if vocab["brand"]["BrandA"] != 0 || vocab["brand"]["BrandB"] != 1 {
		t.Error("EnsureUnknown changed existing codes")
	}
}

func TestEncodeLayout(t *testing.T) {
	vocab := testVocabulary()

	obs := domain.Observation{
		Item: domain.Item{
			Brand:        "BrandB",
			Category:     "Grocery",
			Location:     "Austin",
			SupplierName: "Supplier Two",
			ReorderLevel: 40,
			LeadTime:     5,
		},
		CurrentStock: 120,
		DailySales:   8,
		WeeklySales:  56,
		DaysToEmpty:  15,
	}

	got, err := vocab.Encode(obs)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{120, 8, 56, 40, 5, 15, 1, 1, 0, 1}
	if len(got) != FeatureCount() {
		t.Fatalf("Encode returned %d features, want %d", len(got), FeatureCount())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("feature %d (%s) = %v, want %v", i, FeatureColumns()[i], got[i], want[i])
		}
	}
}

func TestEncodeUnseenCategoricalDoesNotFail(t *testing.T) {
	vocab := testVocabulary()

	obs := domain.Observation{
		Item: domain.Item{
			Brand:        "BrandZ",
			Category:     "Garden",
			Location:     "Nowhere",
			SupplierName: "",
		},
		CurrentStock: 10,
		DailySales:   2,
		WeeklySales:  14,
		DaysToEmpty:  5,
	}

	if _, err := vocab.Encode(obs); err != nil {
		t.Errorf("Encode with unseen categoricals should not fail, got %v", err)
	}
}

func BenchmarkEncode(b *testing.B) {
	vocab := testVocabulary()
	obs := domain.Observation{
		Item: domain.Item{
			Brand:        "BrandB",
			Category:     "Grocery",
			Location:     "Austin",
			SupplierName: "Supplier Two",
			ReorderLevel: 40,
			LeadTime:     5,
		},
		CurrentStock: 120,
		DailySales:   8,
		WeeklySales:  56,
		DaysToEmpty:  15,
	}

	for b.Loop() {
		if _, err := vocab.Encode(obs); err != nil {
			b.Fatal(err)
		}
	}
}

func TestVocabularyValidate(t *testing.T) {
	vocab := testVocabulary()
	if err := vocab.Validate(); err != nil {
		t.Errorf("complete vocabulary should validate, got %v", err)
	}

	delete(vocab, "location")
	if err := vocab.Validate(); err == nil {
		t.Error("expected validation failure for missing column")
	}

	vocab = testVocabulary()
	delete(vocab["brand"], domain.UnknownLabel)
	if err := vocab.Validate(); err == nil {
		t.Error("expected validation failure for missing Unknown code")
	}
}
