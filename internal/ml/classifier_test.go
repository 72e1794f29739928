package ml

import (
	"testing"

	"github.com/sangrahak/inventroops/internal/domain"
)

// trainingRows builds a cleanly separable training set: the first feature
// alone determines both labels.
func trainingRows() (features [][]float64, statuses, priorities []string) {
	for i := 0; i < 30; i++ {
		features = append(features, []float64{5 + float64(i%3), 10, 70})
		statuses = append(statuses, domain.StatusUnderstock)
		priorities = append(priorities, domain.PriorityHigh)
	}
	for i := 0; i < 30; i++ {
		features = append(features, []float64{60 + float64(i%3), 10, 70})
		statuses = append(statuses, domain.StatusPerfect)
		priorities = append(priorities, domain.PriorityMedium)
	}
	for i := 0; i < 30; i++ {
		features = append(features, []float64{200 + float64(i%3), 10, 70})
		statuses = append(statuses, domain.StatusOverstock)
		priorities = append(priorities, domain.PriorityLow)
	}
	return features, statuses, priorities
}

func TestTrainClassifierTwoOutputs(t *testing.T) {
	features, statuses, priorities := trainingRows()
	c, err := TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Outputs(); got != 2 {
		t.Errorf("Outputs() = %d, want 2", got)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("trained classifier should validate, got %v", err)
	}
	if c.Features != 3 {
		t.Errorf("Features = %d, want 3", c.Features)
	}
}

func TestClassifierPredictSeparable(t *testing.T) {
	features, statuses, priorities := trainingRows()
	c, err := TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		input        []float64
		wantStatus   string
		wantPriority string
	}{
		{"low stock", []float64{6, 10, 70}, domain.StatusUnderstock, domain.PriorityHigh},
		{"balanced stock", []float64{61, 10, 70}, domain.StatusPerfect, domain.PriorityMedium},
		{"high stock", []float64{201, 10, 70}, domain.StatusOverstock, domain.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, priority, err := c.Predict(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if priority != tt.wantPriority {
				t.Errorf("priority = %q, want %q", priority, tt.wantPriority)
			}
		})
	}
}

func TestClassifierPredictionsStayInLabelDomain(t *testing.T) {
	features, statuses, priorities := trainingRows()
	c, err := TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}

	inputs := [][]float64{
		{0, 0, 0},
		{1e6, 1e6, 1e6},
		{-50, 3, 20},
	}
	for _, x := range inputs {
		status, priority, err := c.Predict(x)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := domain.ParseStockStatus(status); !ok {
			t.Errorf("predicted status %q is outside the training label set", status)
		}
		if _, ok := domain.ParsePriority(priority); !ok {
			t.Errorf("predicted priority %q is outside the training label set", priority)
		}
	}
}

func TestTrainClassifierDeterministic(t *testing.T) {
	features, statuses, priorities := trainingRows()

	a, err := TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}
	b, err := TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}

	probe := [][]float64{
		{6, 10, 70}, {33, 10, 70}, {61, 10, 70}, {130, 10, 70}, {201, 10, 70},
	}
	for _, x := range probe {
		s1, p1, _ := a.Predict(x)
		s2, p2, _ := b.Predict(x)
		if s1 != s2 || p1 != p2 {
			t.Errorf("two identically seeded trainings disagree at %v: (%s,%s) vs (%s,%s)", x, s1, p1, s2, p2)
		}
	}
}

func TestClassifierPredictWrongWidth(t *testing.T) {
	features, statuses, priorities := trainingRows()
	c, err := TrainClassifier(features, statuses, priorities)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Predict([]float64{1, 2}); err == nil {
		t.Error("expected error for mismatched feature width")
	}
}

func TestTrainClassifierEmptyInput(t *testing.T) {
	if _, err := TrainClassifier(nil, nil, nil); err == nil {
		t.Error("expected error for empty training set")
	}
}

func TestLabelCodecRoundTrip(t *testing.T) {
	codec := NewLabelCodec([]string{"High", "Low", "Medium", "Low", "High"})

	if len(codec.Classes) != 3 {
		t.Fatalf("codec has %d classes, want 3", len(codec.Classes))
	}
	for _, label := range []string{"High", "Low", "Medium"} {
		code, ok := codec.Encode(label)
		if !ok {
			t.Fatalf("Encode(%q) failed", label)
		}
		got, ok := codec.Decode(code)
		if !ok || got != label {
			t.Errorf("round trip %q -> %d -> %q", label, code, got)
		}
	}

	if _, ok := codec.Encode("VeryHigh"); ok {
		t.Error("Encode should reject labels outside the fitted set")
	}
	if _, ok := codec.Decode(99); ok {
		t.Error("Decode should reject codes outside the fitted set")
	}
}
