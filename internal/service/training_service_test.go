// internal/service/training_service_test.go
package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sangrahak/inventroops/internal/dataset"
	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/ml"
)

func generateTrainingSet(t *testing.T, items, days int) []domain.Observation {
	t.Helper()
	return dataset.Generate(dataset.GeneratorConfig{
		Items:     items,
		Days:      days,
		Seed:      7,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func TestTrainProducesDeployableBundle(t *testing.T) {
	observations := generateTrainingSet(t, 5, 30)

	trainer := NewTrainingService(forecast.NewForecaster(42))
	b, err := trainer.Train(observations)
	if err != nil {
		t.Fatal(err)
	}

	if b.Classifier == nil || b.Classifier.Outputs() != 2 {
		t.Fatal("trained bundle must carry a two-output classifier")
	}
	if b.Classifier.Features != ml.FeatureCount() {
		t.Errorf("Features = %d, want %d", b.Classifier.Features, ml.FeatureCount())
	}
	if len(b.Forecasts) != 5 {
		t.Errorf("bundle carries %d item forecasts, want 5", len(b.Forecasts))
	}
	for _, column := range ml.CategoricalColumns {
		if _, ok := b.Vocabulary[column][domain.UnknownLabel]; !ok {
			t.Errorf("vocabulary for %q has no Unknown code", column)
		}
	}

	// Round trip the bundle through its own serialization to prove it is
	// deployable as-is.
	data, err := b.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("marshaled bundle is empty")
	}
}

func TestTrainEmptySet(t *testing.T) {
	trainer := NewTrainingService(forecast.NewForecaster(42))
	_, err := trainer.Train(nil)
	if err == nil {
		t.Fatal("expected error for empty training set")
	}
	var dataErr *domain.DataError
	if !errors.As(err, &dataErr) {
		t.Errorf("error type = %T, want DataError", err)
	}
}

func TestTrainRejectsUnknownLabels(t *testing.T) {
	observations := generateTrainingSet(t, 2, 12)
	observations[3].StockStatus = "Mystery"

	trainer := NewTrainingService(forecast.NewForecaster(42))
	_, err := trainer.Train(observations)
	if err == nil {
		t.Fatal("expected error for unrecognized status label")
	}
	var dataErr *domain.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("error type = %T, want DataError", err)
	}
	if dataErr.Field != "stock_status" {
		t.Errorf("error field = %q, want stock_status", dataErr.Field)
	}
}

func TestTrainShortHistoriesGetFallbackMarkers(t *testing.T) {
	// Five days of history per item is below the fitting threshold.
	observations := generateTrainingSet(t, 3, 5)

	trainer := NewTrainingService(forecast.NewForecaster(42))
	b, err := trainer.Train(observations)
	if err != nil {
		t.Fatal(err)
	}

	if got := b.FittedModelCount(); got != 0 {
		t.Errorf("FittedModelCount() = %d, want 0 for short histories", got)
	}
	for itemID, res := range b.Forecasts {
		if res.FallbackReason == "" {
			t.Errorf("item %s has neither model nor fallback reason", itemID)
		}
	}
}
