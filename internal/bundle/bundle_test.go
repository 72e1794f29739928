package bundle

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/ml"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()

	vocab := ml.FitVocabulary(map[string][]string{
		"brand":         {"BrandA", "BrandB"},
		"category":      {"Electronics", "Grocery"},
		"location":      {"Austin", "Chicago"},
		"supplier_name": {"Supplier One"},
	})

	var features [][]float64
	var statuses, priorities []string
	for i := 0; i < 20; i++ {
		stock := float64(10 + i*20)
		features = append(features, []float64{stock, 8, 56, 50, 4, stock / 8, 0, 1, 0, 0})
		if stock < 100 {
			statuses = append(statuses, domain.StatusUnderstock)
			priorities = append(priorities, domain.PriorityHigh)
		} else {
			statuses = append(statuses, domain.StatusOverstock)
			priorities = append(priorities, domain.PriorityLow)
		}
	}

	classifier, err := ml.TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}

	f := forecast.NewForecaster(42)
	history := make([]float64, 60)
	for i := range history {
		history[i] = (20 + 0.1*float64(i)) * (1 + 0.15*math.Sin(float64(i)*1.3))
	}

	return New(vocab, classifier, map[string]forecast.FitResult{
		"SKU-1": f.Fit(history),
		"SKU-2": {FallbackReason: "history has 3 points, need 10"},
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := testBundle(t)
	path := filepath.Join(t.TempDir(), "models", "bundle.json")

	if err := b.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", loaded.Version, CurrentVersion)
	}
	if len(loaded.Forecasts) != 2 {
		t.Errorf("loaded %d forecasts, want 2", len(loaded.Forecasts))
	}
	if loaded.Classifier.Features != ml.FeatureCount() {
		t.Errorf("Features = %d, want %d", loaded.Classifier.Features, ml.FeatureCount())
	}

	// Both bundles must classify identically after the round trip.
	probe := []float64{15, 8, 56, 50, 4, 1.9, 0, 1, 0, 0}
	s1, p1, err := b.Classifier.Predict(probe)
	if err != nil {
		t.Fatal(err)
	}
	s2, p2, err := loaded.Classifier.Predict(probe)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 || p1 != p2 {
		t.Errorf("round trip changed predictions: (%s,%s) vs (%s,%s)", s1, p1, s2, p2)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing bundle")
	}
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error type = %T, want ConfigurationError", err)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); err == nil {
		t.Error("expected error for undecodable payload")
	}
}

func TestUnmarshalRejectsMissingClassifier(t *testing.T) {
	b := testBundle(t)
	b.Classifier = nil
	data, err := b.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	_, err = Unmarshal(data)
	if err == nil {
		t.Fatal("expected error for bundle without classifier")
	}
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error type = %T, want ConfigurationError", err)
	}
}

func TestUnmarshalEnsuresUnknownCode(t *testing.T) {
	b := testBundle(t)
	// Simulate an older artifact whose vocabularies predate the reserved
	// bucket.
	for column := range b.Vocabulary {
		delete(b.Vocabulary[column], domain.UnknownLabel)
	}
	data, err := b.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("load should repair missing Unknown codes, got %v", err)
	}
	for _, column := range ml.CategoricalColumns {
		if _, ok := loaded.Vocabulary[column][domain.UnknownLabel]; !ok {
			t.Errorf("column %q still has no Unknown code after load", column)
		}
	}
}

func TestLookup(t *testing.T) {
	b := testBundle(t)

	if res := b.Lookup("SKU-2"); res.Fitted() {
		t.Error("SKU-2 carries a fallback marker, Lookup must preserve it")
	}

	res := b.Lookup("SKU-UNSEEN")
	if res.Fitted() {
		t.Error("unknown item must not report a fitted model")
	}
	if res.FallbackReason == "" {
		t.Error("unknown item lookup must carry a fallback reason")
	}
}

func TestFittedModelCount(t *testing.T) {
	b := testBundle(t)
	if got := b.FittedModelCount(); got != 1 {
		t.Errorf("FittedModelCount() = %d, want 1", got)
	}
}
